// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package payment

import (
	"context"
	"fmt"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// Ledger moves free balance between accounts stored alongside the registry.
//
// An account whose balance would fall below [Ledger.ExistentialDeposit] is
// reaped (its balance is removed) unless the transfer asked to keep the
// sender alive, in which case the transfer fails.
type Ledger struct {
	ExistentialDeposit uint64
}

func New(existentialDeposit uint64) *Ledger {
	return &Ledger{ExistentialDeposit: existentialDeposit}
}

// Transfer debits [from] and credits [to]. Nothing is written if it fails.
func (l *Ledger) Transfer(
	ctx context.Context,
	mu state.Mutable,
	from codec.Address,
	to codec.Address,
	amount uint64,
	keepAlive bool,
) error {
	fromBal, err := storage.GetBalance(ctx, mu, from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return fmt.Errorf("%w: balance=%d amount=%d", ErrInsufficientBalance, fromBal, amount)
	}
	if amount == 0 || from == to {
		return nil
	}
	newFrom := fromBal - amount
	if newFrom < l.ExistentialDeposit {
		if keepAlive {
			return fmt.Errorf("%w: remaining=%d existential deposit=%d", ErrKeepAlive, newFrom, l.ExistentialDeposit)
		}
		newFrom = 0
	}

	toBal, err := storage.GetBalance(ctx, mu, to)
	if err != nil {
		return err
	}
	newTo, err := smath.Add64(toBal, amount)
	if err != nil {
		return err
	}
	if newTo < l.ExistentialDeposit {
		return fmt.Errorf("%w: balance=%d existential deposit=%d", ErrBelowExistentialDeposit, newTo, l.ExistentialDeposit)
	}

	if err := storage.SetBalance(ctx, mu, from, newFrom); err != nil {
		return err
	}
	return storage.SetBalance(ctx, mu, to, newTo)
}

// FreeBalance returns the balance [addr] can spend.
func (*Ledger) FreeBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	return storage.GetBalance(ctx, im, addr)
}

// Mint credits [amount] to [to]. It is only used when loading genesis.
func (*Ledger) Mint(ctx context.Context, mu state.Mutable, to codec.Address, amount uint64) error {
	bal, err := storage.GetBalance(ctx, mu, to)
	if err != nil {
		return err
	}
	nbal, err := smath.Add64(bal, amount)
	if err != nil {
		return err
	}
	return storage.SetBalance(ctx, mu, to, nbal)
}
