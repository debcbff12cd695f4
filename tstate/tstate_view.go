// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/kittyvm/keys"
	"github.com/ava-labs/kittyvm/state"
)

const defaultOps = 8

var _ state.Mutable = (*TStateView)(nil)

// op records the pending entry of a key before it was modified.
type op struct {
	k string

	hadPending bool
	pastV      maybe.Maybe[[]byte]
}

// TStateView is the scoped, revertible state handed to a single
// transaction. Nothing it does is visible to [TState] until [Commit].
type TStateView struct {
	ts                 *TState
	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// ops is a record of all operations performed on the view. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op

	scope        state.Keys
	scopeStorage map[string][]byte
}

// NewView returns a view restricted to [scope]. [storage] holds the on-disk
// values of the keys in [scope] (missing keys do not exist).
func (ts *TState) NewView(scope state.Keys, storage map[string][]byte) *TStateView {
	return &TStateView{
		ts:                 ts,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte], len(scope)),
		ops:                make([]*op, 0, defaultOps),
		scope:              scope,
		scopeStorage:       storage,
	}
}

// Rollback restores the view to the state it had after ts.ops[restorePoint-1].
func (ts *TStateView) Rollback(_ context.Context, restorePoint int) {
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]
		if !op.hadPending {
			delete(ts.pendingChangedKeys, op.k)
			continue
		}
		ts.pendingChangedKeys[op.k] = op.pastV
	}
	ts.ops = ts.ops[:restorePoint]
}

// OpIndex returns the number of operations done on ts.
func (ts *TStateView) OpIndex() int {
	return len(ts.ops)
}

func (ts *TStateView) checkScope(k string, perm state.Permissions) bool {
	return ts.scope[k].Has(perm)
}

// GetValue returns the value associated with [key]. If [key] is not readable
// in scope or does not exist, an error is returned.
func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	k := string(key)
	if !ts.checkScope(k, state.Read) {
		return nil, ErrInvalidKeyOrPermission
	}
	v, exists := ts.getValue(ctx, k)
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

// getValue resolves [key] from the view, then the parent [TState], then the
// storage loaded for the scope.
func (ts *TStateView) getValue(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		if v.IsNothing() {
			return nil, false
		}
		return v.Value(), true
	}
	if v, changed, exists := ts.ts.getChangedValue(ctx, key); changed {
		return v, exists
	}
	v, ok := ts.scopeStorage[key]
	return v, ok
}

func (ts *TStateView) record(k string) {
	past, ok := ts.pendingChangedKeys[k]
	ts.ops = append(ts.ops, &op{
		k:          k,
		hadPending: ok,
		pastV:      past,
	})
}

// Insert sets or updates [key] to [value]. Creating a key requires
// [state.Allocate], updating one requires [state.Write].
//
// Any bytes passed into [Insert] will be consumed by [TState] and should
// not be modified/referenced after this call.
func (ts *TStateView) Insert(ctx context.Context, key []byte, value []byte) error {
	k := string(key)
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	_, exists := ts.getValue(ctx, k)
	perm := state.Write
	if !exists {
		perm = state.Allocate
	}
	if !ts.checkScope(k, perm) {
		return ErrInvalidKeyOrPermission
	}
	ts.record(k)
	ts.pendingChangedKeys[k] = maybe.Some(value)
	return nil
}

// Remove deletes [key]. Removing a missing key is a no-op.
func (ts *TStateView) Remove(ctx context.Context, key []byte) error {
	k := string(key)
	if !ts.checkScope(k, state.Write) {
		return ErrInvalidKeyOrPermission
	}
	if _, exists := ts.getValue(ctx, k); !exists {
		return nil
	}
	ts.record(k)
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	return nil
}

// PendingChanges returns the number of keys modified by the view.
func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

// Commit publishes all pending changes to the parent [TState].
func (ts *TStateView) Commit() {
	ts.ts.l.Lock()
	defer ts.ts.l.Unlock()

	for k, v := range ts.pendingChangedKeys {
		ts.ts.changedKeys[k] = v
	}
	ts.ts.ops += len(ts.ops)
}
