// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/registry"
	"github.com/ava-labs/kittyvm/state"
)

// Rules are the chain parameters an [Action] may depend on when declaring
// its state keys.
type Rules interface {
	Treasury() codec.Address
}

// Beacon is a [registry.Beacon] that can be moved to a new block height.
type Beacon interface {
	registry.Beacon

	// Advance moves the beacon to [height], mixing in [parent], the digest
	// of the block accepted at height-1.
	Advance(height uint64, parent ids.ID) error
	// Restore resets the beacon to a seed it held at [height].
	Restore(height uint64, seed ids.ID)
}

type Action interface {
	// GetTypeID uniquely identifies the action type.
	GetTypeID() uint8

	// StateKeys is a full enumeration of all database keys that could be
	// touched during execution. It may read [im] to resolve keys that
	// depend on state, such as the id of the next kitty.
	//
	// Touching a key outside of this set fails execution.
	StateKeys(ctx context.Context, rules Rules, im state.Immutable, actor codec.Address) (state.Keys, error)

	// Size is the number of bytes written by Marshal.
	Size() int
	Marshal(p *codec.Packer)

	// Execute runs the action against [mu]. If an error is returned, any
	// writes made to [mu] are discarded by the caller.
	Execute(ctx context.Context, r *registry.Registry, mu state.Mutable, rctx registry.Context) ([]byte, error)
}
