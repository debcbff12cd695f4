// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/set"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type CustomAllocation struct {
	Address string `json:"address"` // bech32 address
	Balance uint64 `json:"balance"`
}

type Genesis struct {
	// Address prefix
	HRP string `json:"hrp"`

	// Seeds the per-block randomness beacon
	RandomSeed ids.ID `json:"randomSeed"`

	// Allocations
	CustomAllocation []*CustomAllocation `json:"customAllocation"`
}

func Default() *Genesis {
	return &Genesis{
		HRP:        consts.HRP,
		RandomSeed: hashing.ComputeHash256Array([]byte(consts.Name)),
	}
}

func New(b []byte) (*Genesis, error) {
	g := Default()
	if len(b) > 0 {
		if err := json.Unmarshal(b, g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal genesis %s: %w", string(b), err)
		}
	}
	return g, nil
}

// Load writes the initial balances into an empty state.
func (g *Genesis) Load(ctx context.Context, tracer trace.Tracer, mu state.Mutable) error {
	ctx, span := tracer.Start(ctx, "Genesis.Load", oteltrace.WithAttributes(
		attribute.Int("allocations", len(g.CustomAllocation)),
	))
	defer span.End()

	if consts.HRP != g.HRP {
		return ErrInvalidHRP
	}
	var (
		supply uint64
		seen   = set.NewSet[codec.Address](len(g.CustomAllocation))
	)
	for _, alloc := range g.CustomAllocation {
		addr, err := codec.ParseAddressBech32(g.HRP, alloc.Address)
		if err != nil {
			return fmt.Errorf("%w: addr=%s", err, alloc.Address)
		}
		if seen.Contains(addr) {
			return fmt.Errorf("%w: addr=%s", ErrDuplicateAddress, alloc.Address)
		}
		seen.Add(addr)
		supply, err = smath.Add64(supply, alloc.Balance)
		if err != nil {
			return err
		}
		if err := storage.SetBalance(ctx, mu, addr, alloc.Balance); err != nil {
			return fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}
	span.SetAttributes(attribute.String("supply", strconv.FormatUint(supply, 10)))
	return nil
}
