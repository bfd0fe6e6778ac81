// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"crypto/sha256"

	"github.com/ava-labs/avalanchego/ids"
)

// ToID returns the ids.ID of some bytes.
func ToID(bytes []byte) ids.ID {
	return ids.ID(sha256.Sum256(bytes))
}
