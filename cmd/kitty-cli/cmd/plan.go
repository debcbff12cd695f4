// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/kittyvm/actions"
	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/genesis"
)

const (
	ActionCreate   = "create"
	ActionTransfer = "transfer"
	ActionBreed    = "breed"
	ActionList     = "list"
	ActionBuy      = "buy"
)

// Plan is a scenario of blocks executed in order.
type Plan struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Balances allocated at genesis, keyed by account name. Only applied
	// when the database is new.
	Accounts map[string]uint64 `yaml:"accounts"`
	Blocks   []Block           `yaml:"blocks"`
}

type Block struct {
	Description string `yaml:"description"`
	Txs         []Tx   `yaml:"txs"`
}

type Tx struct {
	// Account name or bech32 address.
	Actor   string   `yaml:"actor"`
	Action  string   `yaml:"action"`
	Kitty   uint64   `yaml:"kitty,omitempty"`
	To      string   `yaml:"to,omitempty"`
	Price   uint64   `yaml:"price,omitempty"`
	Parents []uint64 `yaml:"parents,omitempty"`
}

func unmarshalPlan(b []byte) (*Plan, error) {
	p := &Plan{}
	if err := yaml.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	return p, p.Verify()
}

func (p *Plan) Verify() error {
	if len(p.Blocks) == 0 {
		return fmt.Errorf("%w: no blocks found", ErrInvalidPlan)
	}
	for i, blk := range p.Blocks {
		for j, tx := range blk.Txs {
			if err := tx.verify(); err != nil {
				return fmt.Errorf("block %d tx %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func (tx *Tx) verify() error {
	if len(tx.Actor) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTx, "no actor")
	}
	switch tx.Action {
	case ActionCreate, ActionList, ActionBuy:
	case ActionTransfer:
		if len(tx.To) == 0 {
			return fmt.Errorf("%w: %s", ErrInvalidTx, "no recipient")
		}
	case ActionBreed:
		if len(tx.Parents) != 2 {
			return fmt.Errorf("%w: expected 2 parents but found %d", ErrInvalidTx, len(tx.Parents))
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, tx.Action)
	}
	return nil
}

// allocations converts named balances to genesis allocations, sorted by
// account name.
func allocations(hrp string, accounts map[string]uint64) ([]*genesis.CustomAllocation, error) {
	names := maps.Keys(accounts)
	slices.Sort(names)
	allocs := make([]*genesis.CustomAllocation, 0, len(names))
	for _, name := range names {
		account, err := accountAddress(hrp, name)
		if err != nil {
			return nil, err
		}
		addr, err := codec.AddressBech32(hrp, account)
		if err != nil {
			return nil, err
		}
		allocs = append(allocs, &genesis.CustomAllocation{
			Address: addr,
			Balance: accounts[name],
		})
	}
	return allocs, nil
}

// accountAddress parses [name] as a bech32 address when it carries the
// [hrp] prefix and otherwise derives a deterministic account address from it.
func accountAddress(hrp, name string) (codec.Address, error) {
	if strings.HasPrefix(strings.ToLower(name), hrp+"1") {
		addr, err := codec.ParseAddressBech32(hrp, name)
		if err != nil {
			return codec.EmptyAddress, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, name, err)
		}
		return addr, nil
	}
	return codec.DeriveAddress(consts.AccountTypeID, []byte(name)), nil
}

func (tx *Tx) Build(hrp string) (*chain.Transaction, error) {
	if err := tx.verify(); err != nil {
		return nil, err
	}
	actor, err := accountAddress(hrp, tx.Actor)
	if err != nil {
		return nil, err
	}
	var action chain.Action
	switch tx.Action {
	case ActionCreate:
		action = &actions.CreateKitty{}
	case ActionTransfer:
		to, err := accountAddress(hrp, tx.To)
		if err != nil {
			return nil, err
		}
		action = &actions.TransferKitty{
			To:      to,
			KittyID: tx.Kitty,
		}
	case ActionBreed:
		action = &actions.BreedKitty{
			ParentA: tx.Parents[0],
			ParentB: tx.Parents[1],
		}
	case ActionList:
		action = &actions.ListKitty{
			KittyID: tx.Kitty,
			Price:   tx.Price,
		}
	case ActionBuy:
		action = &actions.BuyKitty{KittyID: tx.Kitty}
	}
	return chain.NewTx(actor, action), nil
}
