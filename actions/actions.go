// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
)

// Parser decodes every action defined in this package.
var Parser *codec.TypeParser[chain.Action]

func init() {
	Parser = codec.NewTypeParser[chain.Action]()

	errs := &wrappers.Errs{}
	errs.Add(
		Parser.Register(consts.CreateKittyID, UnmarshalCreateKitty),
		Parser.Register(consts.TransferKittyID, UnmarshalTransferKitty),
		Parser.Register(consts.BreedKittyID, UnmarshalBreedKitty),
		Parser.Register(consts.ListKittyID, UnmarshalListKitty),
		Parser.Register(consts.BuyKittyID, UnmarshalBuyKitty),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}

// addNewKittyKeys adds the keys written when allocating the next kitty.
func addNewKittyKeys(ctx context.Context, ks state.Keys, im state.Immutable) error {
	ks.Add(string(storage.CountKey()), state.All)
	count, err := storage.GetKittiesCount(ctx, im)
	if err != nil {
		return err
	}
	if count == consts.MaxUint64 {
		// allocation fails before anything is written
		return nil
	}
	ks.Add(string(storage.GenomeKey(count+1)), state.All)
	ks.Add(string(storage.OwnerKey(count+1)), state.All)
	return nil
}

func packKittyID(id uint64) []byte {
	p := codec.NewWriter(consts.Uint64Len, consts.Uint64Len)
	p.PackUint64(id)
	return p.Bytes()
}

// UnpackKittyID decodes the output of [CreateKitty] and [BreedKitty].
func UnpackKittyID(b []byte) (uint64, error) {
	p := codec.NewReader(b, consts.Uint64Len)
	id := p.UnpackUint64(true)
	return id, p.Err()
}
