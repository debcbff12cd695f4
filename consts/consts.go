// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/ids"

const (
	HRP  = "kitty"
	Name = "kittyvm"

	Version = "v0.0.1"

	ByteLen   = 1
	Uint16Len = 2
	Uint32Len = 4
	Uint64Len = 8
	IDLen     = 32

	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)

	// GenomeLen is the number of bytes in a kitty genome.
	GenomeLen = 16

	// NetworkSizeLimit bounds any single encoded transaction or block.
	NetworkSizeLimit = 2_044_723 // 1.95 MiB
)

var ID ids.ID

func init() {
	b := make([]byte, ids.IDLen)
	copy(b, []byte(Name))
	vmID, err := ids.ToID(b)
	if err != nil {
		panic(err)
	}
	ID = vmID
}
