// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package payment

import "errors"

var (
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrKeepAlive               = errors.New("transfer would kill sender account")
	ErrBelowExistentialDeposit = errors.New("receiver balance below existential deposit")
)
