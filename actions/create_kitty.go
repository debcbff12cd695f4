// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/registry"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
)

var _ chain.Action = (*CreateKitty)(nil)

// CreateKitty pays the creation fee and mints a kitty with a random genome.
type CreateKitty struct{}

func (*CreateKitty) GetTypeID() uint8 {
	return consts.CreateKittyID
}

func (*CreateKitty) StateKeys(ctx context.Context, rules chain.Rules, im state.Immutable, actor codec.Address) (state.Keys, error) {
	ks := state.Keys{
		string(storage.BalanceKey(actor)):            state.Read | state.Write,
		string(storage.BalanceKey(rules.Treasury())): state.All,
	}
	return ks, addNewKittyKeys(ctx, ks, im)
}

func (*CreateKitty) Execute(ctx context.Context, r *registry.Registry, mu state.Mutable, rctx registry.Context) ([]byte, error) {
	id, err := r.Create(ctx, mu, rctx)
	if err != nil {
		return nil, err
	}
	return packKittyID(id), nil
}

func (*CreateKitty) Size() int {
	return 0
}

func (*CreateKitty) Marshal(*codec.Packer) {}

func UnmarshalCreateKitty(p *codec.Packer) (chain.Action, error) {
	return &CreateKitty{}, p.Err()
}
