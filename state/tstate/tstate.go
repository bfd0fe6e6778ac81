// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/0xhaz/dexvm/state"
)

var (
	_ state.Mutable   = (*TState)(nil)
	_ state.Immutable = (*TState)(nil)
)

// TState buffers all mutations of a single transaction on top of a parent
// view. Nothing is visible to the parent until Commit; a failed transaction
// simply drops the TState and every buffered change with it.
type TState struct {
	parent state.Immutable

	// Nothing marks a pending deletion.
	pendingChangedKeys map[string]maybe.Maybe[[]byte]
}

func New(parent state.Immutable) *TState {
	return &TState{
		parent:             parent,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte]),
	}
}

func (ts *TState) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if v, ok := ts.pendingChangedKeys[string(key)]; ok {
		if v.IsNothing() {
			return nil, database.ErrNotFound
		}
		return v.Value(), nil
	}
	return ts.parent.GetValue(ctx, key)
}

func (ts *TState) Insert(_ context.Context, key []byte, value []byte) error {
	ts.pendingChangedKeys[string(key)] = maybe.Some(value)
	return nil
}

func (ts *TState) Remove(_ context.Context, key []byte) error {
	ts.pendingChangedKeys[string(key)] = maybe.Nothing[[]byte]()
	return nil
}

// PendingChanges returns the number of buffered mutations.
func (ts *TState) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

// Commit flushes all buffered mutations into [mu].
func (ts *TState) Commit(ctx context.Context, mu state.Mutable) error {
	for key, v := range ts.pendingChangedKeys {
		if v.IsNothing() {
			if err := mu.Remove(ctx, []byte(key)); err != nil {
				return err
			}
			continue
		}
		if err := mu.Insert(ctx, []byte(key), v.Value()); err != nil {
			return err
		}
	}
	ts.Discard()
	return nil
}

// Discard drops all buffered mutations.
func (ts *TState) Discard() {
	ts.pendingChangedKeys = make(map[string]maybe.Maybe[[]byte])
}
