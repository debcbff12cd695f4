// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"
)

func TestDatabaseApply(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	db, _, err := New(t.TempDir(), NewDefaultConfig())
	require.NoError(err)
	defer func() {
		require.NoError(db.Close())
	}()

	_, err = db.GetValue(ctx, []byte("owner"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"owner": maybe.Some([]byte{1}),
		"price": maybe.Some([]byte{2}),
	}))
	v, err := db.GetValue(ctx, []byte("owner"))
	require.NoError(err)
	require.Equal([]byte{1}, v)

	require.NoError(db.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"owner": maybe.Some([]byte{3}),
		"price": maybe.Nothing[[]byte](),
	}))
	v, err = db.GetValue(ctx, []byte("owner"))
	require.NoError(err)
	require.Equal([]byte{3}, v)
	_, err = db.GetValue(ctx, []byte("price"))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestDatabaseReopen(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	db, registry, err := New(dir, NewDefaultConfig())
	require.NoError(err)
	require.NotNil(registry)
	require.NoError(db.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"count": maybe.Some([]byte{0, 0, 0, 0, 0, 0, 0, 7}),
	}))
	require.NoError(db.Close())
	require.NoError(db.Close())

	db, _, err = New(dir, NewDefaultConfig())
	require.NoError(err)
	v, err := db.GetValue(ctx, []byte("count"))
	require.NoError(err)
	require.Equal([]byte{0, 0, 0, 0, 0, 0, 0, 7}, v)
	require.NoError(db.Close())
}

func BenchmarkDatabaseApply(b *testing.B) {
	ctx := context.Background()
	db, _, err := New(b.TempDir(), NewDefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	defer db.Close()

	value := make([]byte, 32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		changes := map[string]maybe.Maybe[[]byte]{
			string([]byte{byte(i), byte(i >> 8), byte(i >> 16)}): maybe.Some(value),
		}
		if err := db.Apply(ctx, changes); err != nil {
			b.Fatal(err)
		}
	}
}
