// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var _ Database = (*AvaDatabase)(nil)

// AvaDatabase adapts any avalanchego [database.Database] (memdb, leveldb,
// prefixdb...) to [Database].
type AvaDatabase struct {
	db database.Database
}

func NewAvaDatabase(db database.Database) *AvaDatabase {
	return &AvaDatabase{db: db}
}

func (a *AvaDatabase) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return a.db.Get(key)
}

func (a *AvaDatabase) Apply(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	batch := a.db.NewBatch()
	for k, v := range changes {
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v.Value())
		}
		if err != nil {
			return err
		}
	}
	return batch.Write()
}

// ReadKeys loads the current value of every key in [keys] from [im].
// Missing keys are omitted.
func ReadKeys(ctx context.Context, im Immutable, keys Keys) (map[string][]byte, error) {
	values := make(map[string][]byte, len(keys))
	for k := range keys {
		v, err := im.GetValue(ctx, []byte(k))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, nil
}
