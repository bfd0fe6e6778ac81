// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrIdenticalAddresses     = errors.New("token addresses are identical")
	ErrInvalidPairRecord      = errors.New("malformed pair record")
	ErrInvalidVaultRecord     = errors.New("malformed vault record")
	ErrInvalidCollectorRecord = errors.New("malformed collector record")
	ErrReentrantCall          = errors.New("reentrant call")
)
