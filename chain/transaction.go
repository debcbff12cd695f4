// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

type ActionParser interface {
	Unmarshal(p *codec.Packer) (Action, error)
}

// Transaction is a single [Action] performed by [Actor].
type Transaction struct {
	Actor  codec.Address `json:"actor"`
	Action Action        `json:"action"`
}

func NewTx(actor codec.Address, action Action) *Transaction {
	return &Transaction{Actor: actor, Action: action}
}

func (t *Transaction) Size() int {
	return codec.AddressLen + consts.ByteLen + t.Action.Size()
}

func (t *Transaction) Marshal(p *codec.Packer) {
	p.PackAddress(t.Actor)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
}

func (t *Transaction) Bytes() ([]byte, error) {
	p := codec.NewWriter(t.Size(), consts.NetworkSizeLimit)
	t.Marshal(p)
	return p.Bytes(), p.Err()
}

// ID is the hash of the encoded transaction.
func (t *Transaction) ID() (ids.ID, error) {
	b, err := t.Bytes()
	if err != nil {
		return ids.Empty, err
	}
	return hashing.ComputeHash256Array(b), nil
}

func UnmarshalTx(p *codec.Packer, parser ActionParser) (*Transaction, error) {
	var tx Transaction
	p.UnpackAddress(true, &tx.Actor)
	if err := p.Err(); err != nil {
		return nil, err
	}
	action, err := parser.Unmarshal(p)
	if err != nil {
		return nil, err
	}
	tx.Action = action
	return &tx, p.Err()
}
