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

var _ chain.Action = (*ListKitty)(nil)

// ListKitty sets the sale price of a kitty. A zero [Price] delists it.
type ListKitty struct {
	KittyID uint64 `json:"kittyID"`
	Price   uint64 `json:"price"`
}

func (*ListKitty) GetTypeID() uint8 {
	return consts.ListKittyID
}

func (l *ListKitty) StateKeys(context.Context, chain.Rules, state.Immutable, codec.Address) (state.Keys, error) {
	return state.Keys{
		string(storage.OwnerKey(l.KittyID)): state.Read,
		string(storage.PriceKey(l.KittyID)): state.All,
	}, nil
}

func (l *ListKitty) Execute(ctx context.Context, r *registry.Registry, mu state.Mutable, rctx registry.Context) ([]byte, error) {
	return nil, r.ListForSale(ctx, mu, rctx, l.KittyID, l.Price)
}

func (*ListKitty) Size() int {
	return 2 * consts.Uint64Len
}

func (l *ListKitty) Marshal(p *codec.Packer) {
	p.PackUint64(l.KittyID)
	p.PackUint64(l.Price)
}

func UnmarshalListKitty(p *codec.Packer) (chain.Action, error) {
	var list ListKitty
	list.KittyID = p.UnpackUint64(true)
	list.Price = p.UnpackUint64(false)
	return &list, p.Err()
}
