// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/state"
)

//go:generate go run go.uber.org/mock/mockgen -package=registry -destination=mock_dependencies.go . Payment,Beacon

// Payment moves funds between accounts. It must not write anything when it
// returns an error.
type Payment interface {
	Transfer(
		ctx context.Context,
		mu state.Mutable,
		from codec.Address,
		to codec.Address,
		amount uint64,
		keepAlive bool,
	) error
}

// Beacon returns the random seed of the current block.
type Beacon interface {
	Sample(ctx context.Context) (ids.ID, error)
}

// Context describes a single invocation.
type Context struct {
	Actor codec.Address

	// Seed is sampled from the [Beacon] once per block.
	Seed ids.ID

	// Index strictly increases between invocations sharing the same Seed.
	Index uint64
}
