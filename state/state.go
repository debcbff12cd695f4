// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/maybe"
)

type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the durable store a block of changes is flushed into.
type Database interface {
	Immutable

	// Apply writes every change atomically. A Nothing value removes the key.
	Apply(ctx context.Context, changes map[string]maybe.Maybe[[]byte]) error
}
