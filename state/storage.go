// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var _ Mutable = (*DatabaseStore)(nil)

// DatabaseStore adapts an avalanchego database into a state.Mutable. The
// database reports missing keys with database.ErrNotFound, matching the
// state contract directly.
type DatabaseStore struct {
	db database.Database
}

func NewDatabaseStore(db database.Database) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return s.db.Get(key)
}

func (s *DatabaseStore) Insert(_ context.Context, key []byte, value []byte) error {
	return s.db.Put(key, value)
}

func (s *DatabaseStore) Remove(_ context.Context, key []byte) error {
	return s.db.Delete(key)
}
