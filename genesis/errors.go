// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import "errors"

var (
	ErrInvalidHRP       = errors.New("invalid hrp")
	ErrDuplicateAddress = errors.New("duplicate allocation address")
)
