// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/kittyvm/state"
)

// TState collects the changes of every committed [TStateView] in a block
// until they are flushed to the database together.
type TState struct {
	l           sync.RWMutex
	ops         int
	changedKeys map[string]maybe.Maybe[[]byte]
}

// New returns a new instance of TState. [changedSize] is an estimate of the
// number of keys that will be changed.
func New(changedSize int) *TState {
	return &TState{
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

func (ts *TState) getChangedValue(_ context.Context, key string) ([]byte, bool, bool) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	if v, ok := ts.changedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	return nil, false, false
}

// OpIndex returns the number of operations committed to ts.
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// PendingChanges returns the number of keys changed in ts.
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// ChangedKeys returns the sorted list of keys changed in ts.
func (ts *TState) ChangedKeys() []string {
	ts.l.RLock()
	defer ts.l.RUnlock()

	ks := maps.Keys(ts.changedKeys)
	slices.Sort(ks)
	return ks
}

// Flush writes every committed change to [db] in a single batch.
//
// Once [Flush] is called, ts should not be used again.
func (ts *TState) Flush(ctx context.Context, db state.Database) error {
	ts.l.Lock()
	defer ts.l.Unlock()

	return db.Apply(ctx, maps.Clone(ts.changedKeys))
}

// Reader returns an unscoped read-only view of ts layered over [base].
func (ts *TState) Reader(base state.Immutable) state.Immutable {
	return &reader{ts: ts, base: base}
}

type reader struct {
	ts   *TState
	base state.Immutable
}

func (r *reader) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	v, changed, exists := r.ts.getChangedValue(ctx, string(key))
	if !changed {
		return r.base.GetValue(ctx, key)
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}
