// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/genome"
	"github.com/ava-labs/kittyvm/keys"
	"github.com/ava-labs/kittyvm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

type ReadState func(context.Context, [][]byte) ([][]byte, []error)

// State
// 0x0/ (kitties count)
// 0x1/ (genomes)
//   -> [kitty id] => genome
// 0x2/ (owners)
//   -> [kitty id] => owner
// 0x3/ (listings)
//   -> [kitty id] => price
// 0x4/ (balances)
//   -> [address] => balance
// 0x5/ (height)
// 0x6/ (beacon)
//   -> seed => seed of the last block
//   -> digest => digest of the last block

const (
	countPrefix byte = iota
	genomePrefix
	ownerPrefix
	pricePrefix
	balancePrefix
	heightPrefix
	beaconPrefix
)

const (
	CountChunks   uint16 = 1
	GenomeChunks  uint16 = 1
	OwnerChunks   uint16 = 1
	PriceChunks   uint16 = 1
	BalanceChunks uint16 = 1
	HeightChunks  uint16 = 1
	BeaconChunks  uint16 = 1
)

var (
	countKey  = keys.Build(countPrefix, nil, CountChunks)
	heightKey = keys.Build(heightPrefix, nil, HeightChunks)
	seedKey   = keys.Build(beaconPrefix, []byte{0}, BeaconChunks)
	digestKey = keys.Build(beaconPrefix, []byte{1}, BeaconChunks)
)

func CountKey() []byte {
	return countKey
}

func HeightKey() []byte {
	return heightKey
}

func SeedKey() []byte {
	return seedKey
}

func DigestKey() []byte {
	return digestKey
}

// [genomePrefix] + [kittyID]
func GenomeKey(id uint64) []byte {
	return keys.Build(genomePrefix, binary.BigEndian.AppendUint64(nil, id), GenomeChunks)
}

// [ownerPrefix] + [kittyID]
func OwnerKey(id uint64) []byte {
	return keys.Build(ownerPrefix, binary.BigEndian.AppendUint64(nil, id), OwnerChunks)
}

// [pricePrefix] + [kittyID]
func PriceKey(id uint64) []byte {
	return keys.Build(pricePrefix, binary.BigEndian.AppendUint64(nil, id), PriceChunks)
}

// [balancePrefix] + [address]
func BalanceKey(addr codec.Address) []byte {
	return keys.Build(balancePrefix, addr[:], BalanceChunks)
}

func getUint64(ctx context.Context, im state.Immutable, k []byte) (uint64, bool, error) {
	return innerGetUint64(im.GetValue(ctx, k))
}

func innerGetUint64(v []byte, err error) (uint64, bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(v) != consts.Uint64Len {
		return 0, false, fmt.Errorf("%w: expected %d bytes but found %d", ErrCorruptValue, consts.Uint64Len, len(v))
	}
	return binary.BigEndian.Uint64(v), true, nil
}

func setUint64(ctx context.Context, mu state.Mutable, k []byte, v uint64) error {
	return mu.Insert(ctx, k, binary.BigEndian.AppendUint64(nil, v))
}

// GetKittiesCount returns the number of kitties ever created.
func GetKittiesCount(ctx context.Context, im state.Immutable) (uint64, error) {
	count, _, err := getUint64(ctx, im, countKey)
	return count, err
}

// NextKittyID increments the kitties count and returns the new value, which
// is the id of the kitty being created. On overflow nothing is written.
func NextKittyID(ctx context.Context, mu state.Mutable) (uint64, error) {
	count, err := GetKittiesCount(ctx, mu)
	if err != nil {
		return 0, err
	}
	next, err := smath.Add64(count, 1)
	if err != nil {
		return 0, fmt.Errorf("%w: count=%d", ErrCounterOverflow, count)
	}
	return next, setUint64(ctx, mu, countKey, next)
}

// SetKittiesCount overwrites the kitties count. It is only used by genesis
// and tests.
func SetKittiesCount(ctx context.Context, mu state.Mutable, count uint64) error {
	return setUint64(ctx, mu, countKey, count)
}

func GetGenome(ctx context.Context, im state.Immutable, id uint64) (genome.Genome, bool, error) {
	return innerGetGenome(im.GetValue(ctx, GenomeKey(id)))
}

func innerGetGenome(v []byte, err error) (genome.Genome, bool, error) {
	var g genome.Genome
	if errors.Is(err, database.ErrNotFound) {
		return g, false, nil
	}
	if err != nil {
		return g, false, err
	}
	if len(v) != consts.GenomeLen {
		return g, false, fmt.Errorf("%w: expected %d genome bytes but found %d", ErrCorruptValue, consts.GenomeLen, len(v))
	}
	copy(g[:], v)
	return g, true, nil
}

func SetGenome(ctx context.Context, mu state.Mutable, id uint64, g genome.Genome) error {
	v := make([]byte, consts.GenomeLen)
	copy(v, g[:])
	return mu.Insert(ctx, GenomeKey(id), v)
}

// GetOwner returns the owner of [id]. The kitty does not exist if ok is false.
func GetOwner(ctx context.Context, im state.Immutable, id uint64) (codec.Address, bool, error) {
	return innerGetOwner(im.GetValue(ctx, OwnerKey(id)))
}

func innerGetOwner(v []byte, err error) (codec.Address, bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, false, nil
	}
	if err != nil {
		return codec.EmptyAddress, false, err
	}
	owner, err := codec.ToAddress(v)
	if err != nil {
		return codec.EmptyAddress, false, fmt.Errorf("%w: %w", ErrCorruptValue, err)
	}
	return owner, true, nil
}

// SetOwner unconditionally overwrites the owner of [id].
func SetOwner(ctx context.Context, mu state.Mutable, id uint64, owner codec.Address) error {
	v := make([]byte, codec.AddressLen)
	copy(v, owner[:])
	return mu.Insert(ctx, OwnerKey(id), v)
}

// IsOwner returns true if [addr] owns [id]. A kitty that does not exist is
// not owned by anyone.
func IsOwner(ctx context.Context, im state.Immutable, id uint64, addr codec.Address) (bool, error) {
	owner, ok, err := GetOwner(ctx, im, id)
	if err != nil || !ok {
		return false, err
	}
	return owner == addr, nil
}

// GetPrice returns the listing price of [id]. A kitty is for sale only if ok
// is true.
func GetPrice(ctx context.Context, im state.Immutable, id uint64) (uint64, bool, error) {
	return getUint64(ctx, im, PriceKey(id))
}

// SetPrice lists [id] at [price]. Zero prices are never stored, use
// [DeletePrice] to delist.
func SetPrice(ctx context.Context, mu state.Mutable, id uint64, price uint64) error {
	if price == 0 {
		return ErrInvalidPrice
	}
	return setUint64(ctx, mu, PriceKey(id), price)
}

func DeletePrice(ctx context.Context, mu state.Mutable, id uint64) error {
	return mu.Remove(ctx, PriceKey(id))
}

// GetKitty returns everything stored about [id].
func GetKitty(
	ctx context.Context,
	im state.Immutable,
	id uint64,
) (bool, genome.Genome, codec.Address, uint64, error) {
	owner, exists, err := GetOwner(ctx, im, id)
	if err != nil || !exists {
		return false, genome.Genome{}, codec.EmptyAddress, 0, err
	}
	g, _, err := GetGenome(ctx, im, id)
	if err != nil {
		return false, genome.Genome{}, codec.EmptyAddress, 0, err
	}
	price, _, err := GetPrice(ctx, im, id)
	if err != nil {
		return false, genome.Genome{}, codec.EmptyAddress, 0, err
	}
	return true, g, owner, price, nil
}

// GetKittyFromState is used to serve RPC queries.
func GetKittyFromState(
	ctx context.Context,
	f ReadState,
	id uint64,
) (bool, genome.Genome, codec.Address, uint64, error) {
	values, errs := f(ctx, [][]byte{OwnerKey(id), GenomeKey(id), PriceKey(id)})
	owner, exists, err := innerGetOwner(values[0], errs[0])
	if err != nil || !exists {
		return false, genome.Genome{}, codec.EmptyAddress, 0, err
	}
	g, _, err := innerGetGenome(values[1], errs[1])
	if err != nil {
		return false, genome.Genome{}, codec.EmptyAddress, 0, err
	}
	price, _, err := innerGetUint64(values[2], errs[2])
	if err != nil {
		return false, genome.Genome{}, codec.EmptyAddress, 0, err
	}
	return true, g, owner, price, nil
}

// GetKittiesCountFromState is used to serve RPC queries.
func GetKittiesCountFromState(ctx context.Context, f ReadState) (uint64, error) {
	values, errs := f(ctx, [][]byte{countKey})
	count, _, err := innerGetUint64(values[0], errs[0])
	return count, err
}

// GetHeight returns the height of the last block written to state.
func GetHeight(ctx context.Context, im state.Immutable) (uint64, error) {
	height, _, err := getUint64(ctx, im, heightKey)
	return height, err
}

func SetHeight(ctx context.Context, mu state.Mutable, height uint64) error {
	return setUint64(ctx, mu, heightKey, height)
}

// GetSeed returns the random seed observed by the last block.
func GetSeed(ctx context.Context, im state.Immutable) (ids.ID, bool, error) {
	return getID(ctx, im, seedKey)
}

func SetSeed(ctx context.Context, mu state.Mutable, seed ids.ID) error {
	return mu.Insert(ctx, seedKey, seed[:])
}

// GetBlockDigest returns the digest of the transactions of the last block.
func GetBlockDigest(ctx context.Context, im state.Immutable) (ids.ID, bool, error) {
	return getID(ctx, im, digestKey)
}

func SetBlockDigest(ctx context.Context, mu state.Mutable, digest ids.ID) error {
	return mu.Insert(ctx, digestKey, digest[:])
}

func getID(ctx context.Context, im state.Immutable, k []byte) (ids.ID, bool, error) {
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return ids.Empty, false, nil
	}
	if err != nil {
		return ids.Empty, false, err
	}
	if len(v) != ids.IDLen {
		return ids.Empty, false, fmt.Errorf("%w: expected %d bytes but found %d", ErrCorruptValue, ids.IDLen, len(v))
	}
	return ids.ID(v), true, nil
}
