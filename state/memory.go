// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var (
	_ Mutable  = (*InMemoryStore)(nil)
	_ Database = (*InMemoryStore)(nil)
)

// InMemoryStore is a map backed store without scoping. It is used to seed
// state in tests and by tooling that runs outside of a block.
type InMemoryStore struct {
	Storage map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		Storage: make(map[string][]byte),
	}
}

func (i *InMemoryStore) GetValue(_ context.Context, key []byte) ([]byte, error) {
	val, ok := i.Storage[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return val, nil
}

func (i *InMemoryStore) Insert(_ context.Context, key []byte, value []byte) error {
	i.Storage[string(key)] = value
	return nil
}

func (i *InMemoryStore) Remove(_ context.Context, key []byte) error {
	delete(i.Storage, string(key))
	return nil
}

func (i *InMemoryStore) Apply(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	for k, v := range changes {
		if v.IsNothing() {
			delete(i.Storage, k)
			continue
		}
		i.Storage[k] = v.Value()
	}
	return nil
}

// Clone returns a deep copy of the store contents.
func (i *InMemoryStore) Clone() map[string][]byte {
	c := make(map[string][]byte, len(i.Storage))
	for k, v := range i.Storage {
		c[k] = append([]byte(nil), v...)
	}
	return c
}

// Changes returns the store contents as a set of insertions that can be
// passed to [Database.Apply].
func (i *InMemoryStore) Changes() map[string]maybe.Maybe[[]byte] {
	changes := make(map[string]maybe.Maybe[[]byte], len(i.Storage))
	for k, v := range i.Storage {
		changes[k] = maybe.Some(v)
	}
	return changes
}
