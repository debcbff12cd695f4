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

var _ chain.Action = (*BuyKitty)(nil)

// BuyKitty pays the listed price of a kitty to its owner.
type BuyKitty struct {
	KittyID uint64 `json:"kittyID"`
}

func (*BuyKitty) GetTypeID() uint8 {
	return consts.BuyKittyID
}

func (b *BuyKitty) StateKeys(ctx context.Context, _ chain.Rules, im state.Immutable, actor codec.Address) (state.Keys, error) {
	ks := state.Keys{
		string(storage.OwnerKey(b.KittyID)): state.Read | state.Write,
		string(storage.PriceKey(b.KittyID)): state.Read | state.Write,
		string(storage.BalanceKey(actor)):   state.Read | state.Write,
	}
	seller, exists, err := storage.GetOwner(ctx, im, b.KittyID)
	if err != nil {
		return nil, err
	}
	if exists {
		ks.Add(string(storage.BalanceKey(seller)), state.All)
	}
	return ks, nil
}

func (b *BuyKitty) Execute(ctx context.Context, r *registry.Registry, mu state.Mutable, rctx registry.Context) ([]byte, error) {
	return nil, r.BuyKitty(ctx, mu, rctx, b.KittyID)
}

func (*BuyKitty) Size() int {
	return consts.Uint64Len
}

func (b *BuyKitty) Marshal(p *codec.Packer) {
	p.PackUint64(b.KittyID)
}

func UnmarshalBuyKitty(p *codec.Packer) (chain.Action, error) {
	var buy BuyKitty
	buy.KittyID = p.UnpackUint64(true)
	return &buy, p.Err()
}
