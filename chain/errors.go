// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrInvalidHeight   = errors.New("invalid block height")
	ErrTooManyTxs      = errors.New("too many transactions")
	ErrInvalidStateKey = errors.New("invalid state key")
	ErrTrailingBytes   = errors.New("trailing bytes")
	ErrGenesisApplied  = errors.New("genesis already applied")
)
