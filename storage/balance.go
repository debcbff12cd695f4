// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/state"
)

// GetBalance returns the free balance of [addr]. An account that does not
// exist has a balance of zero.
func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	bal, _, err := getUint64(ctx, im, BalanceKey(addr))
	return bal, err
}

// GetBalanceFromState is used to serve RPC queries.
func GetBalanceFromState(ctx context.Context, f ReadState, addr codec.Address) (uint64, error) {
	values, errs := f(ctx, [][]byte{BalanceKey(addr)})
	bal, _, err := innerGetUint64(values[0], errs[0])
	return bal, err
}

// SetBalance overwrites the balance of [addr]. A zero balance removes the
// account instead of storing zero.
func SetBalance(ctx context.Context, mu state.Mutable, addr codec.Address, balance uint64) error {
	k := BalanceKey(addr)
	if balance == 0 {
		return mu.Remove(ctx, k)
	}
	return setUint64(ctx, mu, k, balance)
}
