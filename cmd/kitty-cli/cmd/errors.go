// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrInvalidPlan    = errors.New("invalid plan")
	ErrInvalidTx      = errors.New("invalid transaction")
	ErrUnknownAction  = errors.New("unknown action")
	ErrMissingAccount = errors.New("missing account")
	ErrInvalidArgs    = errors.New("invalid arguments")
	ErrInvalidAddress = errors.New("invalid address")
)
