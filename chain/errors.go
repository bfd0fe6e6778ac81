// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var ErrActionNotValidYet = errors.New("action timestamp outside valid range")
