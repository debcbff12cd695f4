// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrCounterOverflow = errors.New("kitties count overflow")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrCorruptValue    = errors.New("corrupt value")
)
