// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/avalanchego/database"

	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/state"
)

func lockKey(component codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = lockPrefix
	copy(k[1:], component[:])
	return k
}

// AcquireLock takes the non-reentrant guard for [component]. A second
// acquisition inside the same transaction observes the flag and fails with
// ErrReentrantCall. Failed transactions discard their view, so a lock can
// never outlive the transaction that took it.
func AcquireLock(ctx context.Context, mu state.Mutable, component codec.Address) error {
	k := lockKey(component)
	_, err := mu.GetValue(ctx, k)
	if err == nil {
		return ErrReentrantCall
	}
	if err != database.ErrNotFound {
		return err
	}
	return mu.Insert(ctx, k, []byte{1})
}

// ReleaseLock drops the guard on the success path.
func ReleaseLock(ctx context.Context, mu state.Mutable, component codec.Address) error {
	return mu.Remove(ctx, lockKey(component))
}
