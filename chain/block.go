// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

// MaxTxsPerBlock bounds the number of transactions decoded from a block.
const MaxTxsPerBlock = 4_096

// Block is an ordered batch of transactions executed at [Height].
type Block struct {
	Height uint64         `json:"height"`
	Txs    []*Transaction `json:"txs"`
}

func (b *Block) Size() int {
	size := consts.Uint64Len + consts.Uint32Len
	for _, tx := range b.Txs {
		size += tx.Size()
	}
	return size
}

// Digest commits to the height and the ordered transaction ids of [b].
func (b *Block) Digest() (ids.ID, error) {
	p := codec.NewWriter(consts.Uint64Len+len(b.Txs)*ids.IDLen, consts.NetworkSizeLimit)
	p.PackUint64(b.Height)
	for _, tx := range b.Txs {
		id, err := tx.ID()
		if err != nil {
			return ids.Empty, err
		}
		p.PackID(id)
	}
	if err := p.Err(); err != nil {
		return ids.Empty, err
	}
	return hashing.ComputeHash256Array(p.Bytes()), nil
}

func (b *Block) Marshal() ([]byte, error) {
	p := codec.NewWriter(b.Size(), consts.NetworkSizeLimit)
	p.PackUint64(b.Height)
	p.PackInt(len(b.Txs))
	for _, tx := range b.Txs {
		tx.Marshal(p)
	}
	return p.Bytes(), p.Err()
}

func UnmarshalBlock(raw []byte, parser ActionParser) (*Block, error) {
	p := codec.NewReader(raw, consts.NetworkSizeLimit)
	var b Block
	b.Height = p.UnpackUint64(true)
	count := p.UnpackInt(false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if count > MaxTxsPerBlock {
		return nil, ErrTooManyTxs
	}
	b.Txs = make([]*Transaction, 0, count)
	for i := 0; i < count; i++ {
		tx, err := UnmarshalTx(p, parser)
		if err != nil {
			return nil, err
		}
		b.Txs = append(b.Txs, tx)
	}
	if !p.Empty() {
		return nil, ErrTrailingBytes
	}
	return &b, p.Err()
}
