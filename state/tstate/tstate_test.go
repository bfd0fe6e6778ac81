// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"

	"github.com/0xhaz/dexvm/state"
)

type memStore struct {
	storage map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{storage: make(map[string][]byte)}
}

func (m *memStore) GetValue(_ context.Context, key []byte) ([]byte, error) {
	v, ok := m.storage[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Insert(_ context.Context, key []byte, value []byte) error {
	m.storage[string(key)] = value
	return nil
}

func (m *memStore) Remove(_ context.Context, key []byte) error {
	delete(m.storage, string(key))
	return nil
}

var _ state.Mutable = (*memStore)(nil)

func TestTStateCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := newMemStore()
	require.NoError(store.Insert(ctx, []byte("a"), []byte{1}))

	ts := New(store)
	require.NoError(ts.Insert(ctx, []byte("b"), []byte{2}))
	require.NoError(ts.Remove(ctx, []byte("a")))

	// Buffered view sees the changes, parent does not.
	_, err := ts.GetValue(ctx, []byte("a"))
	require.ErrorIs(err, database.ErrNotFound)
	v, err := ts.GetValue(ctx, []byte("b"))
	require.NoError(err)
	require.Equal([]byte{2}, v)
	_, ok := store.storage["b"]
	require.False(ok)

	require.NoError(ts.Commit(ctx, store))
	_, ok = store.storage["a"]
	require.False(ok)
	require.Equal([]byte{2}, store.storage["b"])
	require.Zero(ts.PendingChanges())
}

func TestTStateDiscard(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := newMemStore()
	require.NoError(store.Insert(ctx, []byte("a"), []byte{1}))

	ts := New(store)
	require.NoError(ts.Insert(ctx, []byte("a"), []byte{9}))
	require.NoError(ts.Insert(ctx, []byte("b"), []byte{2}))
	ts.Discard()

	require.Zero(ts.PendingChanges())
	require.Equal([]byte{1}, store.storage["a"])
	_, ok := store.storage["b"]
	require.False(ok)
}
