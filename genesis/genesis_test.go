// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
)

func TestLoad(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := codec.CreateAddress(consts.AccountTypeID, ids.GenerateTestID())
	bob := codec.CreateAddress(consts.AccountTypeID, ids.GenerateTestID())
	b := []byte(fmt.Sprintf(`{
		"customAllocation": [
			{"address": %q, "balance": 100},
			{"address": %q, "balance": 20}
		]
	}`, codec.MustAddressBech32(consts.HRP, alice), codec.MustAddressBech32(consts.HRP, bob)))

	g, err := New(b)
	require.NoError(err)
	require.Equal(consts.HRP, g.HRP)
	require.Equal(Default().RandomSeed, g.RandomSeed)

	mu := state.NewInMemoryStore()
	require.NoError(g.Load(ctx, trace.Noop, mu))

	bal, err := storage.GetBalance(ctx, mu, alice)
	require.NoError(err)
	require.Equal(uint64(100), bal)
	bal, err = storage.GetBalance(ctx, mu, bob)
	require.NoError(err)
	require.Equal(uint64(20), bal)
}

func TestLoadInvalid(t *testing.T) {
	alice := codec.MustAddressBech32(consts.HRP, codec.CreateAddress(consts.AccountTypeID, ids.GenerateTestID()))

	tests := map[string]struct {
		genesis     *Genesis
		expectedErr error
	}{
		"wrong hrp": {
			genesis:     &Genesis{HRP: "other"},
			expectedErr: ErrInvalidHRP,
		},
		"bad address hrp": {
			genesis: &Genesis{
				HRP: consts.HRP,
				CustomAllocation: []*CustomAllocation{{
					Address: codec.MustAddressBech32("other", codec.EmptyAddress),
					Balance: 1,
				}},
			},
			expectedErr: codec.ErrIncorrectHRP,
		},
		"duplicate": {
			genesis: &Genesis{
				HRP: consts.HRP,
				CustomAllocation: []*CustomAllocation{
					{Address: alice, Balance: 1},
					{Address: alice, Balance: 2},
				},
			},
			expectedErr: ErrDuplicateAddress,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()

			mu := state.NewInMemoryStore()
			require.ErrorIs(tt.genesis.Load(ctx, trace.Noop, mu), tt.expectedErr)
		})
	}
}
