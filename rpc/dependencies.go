// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/genesis"
)

type Controller interface {
	Genesis() *genesis.Genesis
	Tracer() trace.Tracer
	Logger() logging.Logger

	// ReadState returns the committed value of each key, or the error
	// encountered reading it.
	ReadState(ctx context.Context, keys [][]byte) ([][]byte, []error)
	LastAccepted() uint64

	Treasury() codec.Address
	CreateFee() uint64
	HRP() string
}
