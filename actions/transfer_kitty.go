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

var _ chain.Action = (*TransferKitty)(nil)

type TransferKitty struct {
	// To is the new owner of [KittyID].
	To codec.Address `json:"to"`

	KittyID uint64 `json:"kittyID"`
}

func (*TransferKitty) GetTypeID() uint8 {
	return consts.TransferKittyID
}

func (t *TransferKitty) StateKeys(context.Context, chain.Rules, state.Immutable, codec.Address) (state.Keys, error) {
	return state.Keys{
		string(storage.OwnerKey(t.KittyID)): state.Read | state.Write,
		string(storage.PriceKey(t.KittyID)): state.Read | state.Write,
	}, nil
}

func (t *TransferKitty) Execute(ctx context.Context, r *registry.Registry, mu state.Mutable, rctx registry.Context) ([]byte, error) {
	return nil, r.Transfer(ctx, mu, rctx, t.To, t.KittyID)
}

func (*TransferKitty) Size() int {
	return codec.AddressLen + consts.Uint64Len
}

func (t *TransferKitty) Marshal(p *codec.Packer) {
	p.PackAddress(t.To)
	p.PackUint64(t.KittyID)
}

func UnmarshalTransferKitty(p *codec.Packer) (chain.Action, error) {
	var transfer TransferKitty
	p.UnpackAddress(false, &transfer.To)
	transfer.KittyID = p.UnpackUint64(true)
	return &transfer, p.Err()
}
