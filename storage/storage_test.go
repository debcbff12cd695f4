// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/genome"
	"github.com/ava-labs/kittyvm/keys"
	"github.com/ava-labs/kittyvm/state"
)

func TestKeysAreDistinct(t *testing.T) {
	require := require.New(t)

	addr := codec.CreateAddress(consts.AccountTypeID, ids.GenerateTestID())
	all := [][]byte{
		CountKey(),
		HeightKey(),
		GenomeKey(1),
		GenomeKey(2),
		OwnerKey(1),
		PriceKey(1),
		BalanceKey(addr),
		SeedKey(),
		DigestKey(),
	}
	seen := make(map[string]struct{}, len(all))
	for _, k := range all {
		require.True(keys.Valid(k))
		_, ok := seen[string(k)]
		require.False(ok)
		seen[string(k)] = struct{}{}
	}
}

func TestNextKittyID(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()

	count, err := GetKittiesCount(ctx, mu)
	require.NoError(err)
	require.Zero(count)

	for i := uint64(1); i <= 3; i++ {
		id, err := NextKittyID(ctx, mu)
		require.NoError(err)
		require.Equal(i, id)
	}
	count, err = GetKittiesCount(ctx, mu)
	require.NoError(err)
	require.Equal(uint64(3), count)
}

func TestNextKittyIDOverflow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()

	require.NoError(SetKittiesCount(ctx, mu, consts.MaxUint64))
	_, err := NextKittyID(ctx, mu)
	require.ErrorIs(err, ErrCounterOverflow)

	count, err := GetKittiesCount(ctx, mu)
	require.NoError(err)
	require.Equal(consts.MaxUint64, count)
}

func TestKitty(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()

	owner := codec.CreateAddress(consts.AccountTypeID, ids.GenerateTestID())
	other := codec.CreateAddress(consts.AccountTypeID, ids.GenerateTestID())
	g := genome.Originate(ids.GenerateTestID(), owner, 0)

	exists, _, _, _, err := GetKitty(ctx, mu, 1)
	require.NoError(err)
	require.False(exists)
	isOwner, err := IsOwner(ctx, mu, 1, codec.EmptyAddress)
	require.NoError(err)
	require.False(isOwner)

	require.NoError(SetGenome(ctx, mu, 1, g))
	require.NoError(SetOwner(ctx, mu, 1, owner))

	exists, storedGenome, storedOwner, price, err := GetKitty(ctx, mu, 1)
	require.NoError(err)
	require.True(exists)
	require.Equal(g, storedGenome)
	require.Equal(owner, storedOwner)
	require.Zero(price)

	isOwner, err = IsOwner(ctx, mu, 1, owner)
	require.NoError(err)
	require.True(isOwner)
	isOwner, err = IsOwner(ctx, mu, 1, other)
	require.NoError(err)
	require.False(isOwner)

	require.ErrorIs(SetPrice(ctx, mu, 1, 0), ErrInvalidPrice)
	require.NoError(SetPrice(ctx, mu, 1, 10))
	price, listed, err := GetPrice(ctx, mu, 1)
	require.NoError(err)
	require.True(listed)
	require.Equal(uint64(10), price)

	require.NoError(DeletePrice(ctx, mu, 1))
	_, listed, err = GetPrice(ctx, mu, 1)
	require.NoError(err)
	require.False(listed)
}

func TestCorruptValue(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()

	require.NoError(mu.Insert(ctx, CountKey(), []byte{1, 2}))
	_, err := GetKittiesCount(ctx, mu)
	require.ErrorIs(err, ErrCorruptValue)

	require.NoError(mu.Insert(ctx, OwnerKey(1), []byte{1}))
	_, _, err = GetOwner(ctx, mu, 1)
	require.ErrorIs(err, ErrCorruptValue)

	require.NoError(mu.Insert(ctx, GenomeKey(1), []byte{1}))
	_, _, err = GetGenome(ctx, mu, 1)
	require.ErrorIs(err, ErrCorruptValue)
}

func TestBalance(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()
	addr := codec.CreateAddress(consts.AccountTypeID, ids.GenerateTestID())

	bal, err := GetBalance(ctx, mu, addr)
	require.NoError(err)
	require.Zero(bal)

	require.NoError(SetBalance(ctx, mu, addr, 100))
	bal, err = GetBalance(ctx, mu, addr)
	require.NoError(err)
	require.Equal(uint64(100), bal)

	require.NoError(SetBalance(ctx, mu, addr, 0))
	_, err = mu.GetValue(ctx, BalanceKey(addr))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestFromState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()

	owner := codec.CreateAddress(consts.AccountTypeID, ids.GenerateTestID())
	g := genome.Originate(ids.GenerateTestID(), owner, 0)
	_, err := NextKittyID(ctx, mu)
	require.NoError(err)
	require.NoError(SetGenome(ctx, mu, 1, g))
	require.NoError(SetOwner(ctx, mu, 1, owner))
	require.NoError(SetPrice(ctx, mu, 1, 42))
	require.NoError(SetBalance(ctx, mu, owner, 7))

	read := func(ctx context.Context, ks [][]byte) ([][]byte, []error) {
		values := make([][]byte, len(ks))
		errs := make([]error, len(ks))
		for i, k := range ks {
			values[i], errs[i] = mu.GetValue(ctx, k)
		}
		return values, errs
	}

	exists, storedGenome, storedOwner, price, err := GetKittyFromState(ctx, read, 1)
	require.NoError(err)
	require.True(exists)
	require.Equal(g, storedGenome)
	require.Equal(owner, storedOwner)
	require.Equal(uint64(42), price)

	exists, _, _, _, err = GetKittyFromState(ctx, read, 2)
	require.NoError(err)
	require.False(exists)

	count, err := GetKittiesCountFromState(ctx, read)
	require.NoError(err)
	require.Equal(uint64(1), count)

	bal, err := GetBalanceFromState(ctx, read, owner)
	require.NoError(err)
	require.Equal(uint64(7), bal)
}

func TestBeacon(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()

	_, ok, err := GetSeed(ctx, mu)
	require.NoError(err)
	require.False(ok)

	seed, digest := ids.GenerateTestID(), ids.GenerateTestID()
	require.NoError(SetSeed(ctx, mu, seed))
	require.NoError(SetBlockDigest(ctx, mu, digest))

	got, ok, err := GetSeed(ctx, mu)
	require.NoError(err)
	require.True(ok)
	require.Equal(seed, got)
	got, ok, err = GetBlockDigest(ctx, mu)
	require.NoError(err)
	require.True(ok)
	require.Equal(digest, got)

	require.NoError(mu.Insert(ctx, SeedKey(), []byte{1}))
	_, _, err = GetSeed(ctx, mu)
	require.ErrorIs(err, ErrCorruptValue)
}
