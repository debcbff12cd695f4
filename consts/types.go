// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// Address TypeIDs
	AccountTypeID  uint8 = 0
	TreasuryTypeID uint8 = 1

	// Action TypeIDs
	CreateKittyID   uint8 = 0
	TransferKittyID uint8 = 1
	BreedKittyID    uint8 = 2
	ListKittyID     uint8 = 3
	BuyKittyID      uint8 = 4
)
