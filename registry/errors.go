// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"errors"

	"github.com/ava-labs/kittyvm/storage"
)

var (
	ErrCounterOverflow   = storage.ErrCounterOverflow
	ErrKittyNotExist     = errors.New("kitty does not exist")
	ErrNotOwner          = errors.New("not owner")
	ErrSameParentIndex   = errors.New("parents must be distinct")
	ErrInvalidKittyIndex = errors.New("invalid kitty index")
	ErrKittyNotForSale   = errors.New("kitty not for sale")
	ErrPaymentFailed     = errors.New("payment failed")
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrCounterOverflow, "counter_overflow"},
	{ErrKittyNotExist, "kitty_not_exist"},
	{ErrNotOwner, "not_owner"},
	{ErrSameParentIndex, "same_parent_index"},
	{ErrInvalidKittyIndex, "invalid_kitty_index"},
	{ErrKittyNotForSale, "kitty_not_for_sale"},
	{ErrPaymentFailed, "payment_failed"},
}

// ErrorKind returns a short label for [err] suitable for metrics. Errors not
// raised by the registry are labelled "internal".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}
