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

var _ chain.Action = (*BreedKitty)(nil)

// BreedKitty mints a kitty from two parents owned by the actor.
type BreedKitty struct {
	ParentA uint64 `json:"parentA"`
	ParentB uint64 `json:"parentB"`
}

func (*BreedKitty) GetTypeID() uint8 {
	return consts.BreedKittyID
}

func (b *BreedKitty) StateKeys(ctx context.Context, _ chain.Rules, im state.Immutable, _ codec.Address) (state.Keys, error) {
	ks := state.Keys{}
	for _, id := range []uint64{b.ParentA, b.ParentB} {
		ks.Add(string(storage.OwnerKey(id)), state.Read)
		ks.Add(string(storage.GenomeKey(id)), state.Read)
	}
	return ks, addNewKittyKeys(ctx, ks, im)
}

func (b *BreedKitty) Execute(ctx context.Context, r *registry.Registry, mu state.Mutable, rctx registry.Context) ([]byte, error) {
	id, err := r.Breed(ctx, mu, rctx, b.ParentA, b.ParentB)
	if err != nil {
		return nil, err
	}
	return packKittyID(id), nil
}

func (*BreedKitty) Size() int {
	return 2 * consts.Uint64Len
}

func (b *BreedKitty) Marshal(p *codec.Packer) {
	p.PackUint64(b.ParentA)
	p.PackUint64(b.ParentB)
}

func UnmarshalBreedKitty(p *codec.Packer) (chain.Action, error) {
	var breed BreedKitty
	breed.ParentA = p.UnpackUint64(true)
	breed.ParentB = p.UnpackUint64(true)
	return &breed, p.Err()
}
