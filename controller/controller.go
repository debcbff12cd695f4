// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/config"
	"github.com/ava-labs/kittyvm/event"
	"github.com/ava-labs/kittyvm/genesis"
	"github.com/ava-labs/kittyvm/payment"
	"github.com/ava-labs/kittyvm/randomness"
	"github.com/ava-labs/kittyvm/registry"
	"github.com/ava-labs/kittyvm/rpc"
	"github.com/ava-labs/kittyvm/state"
)

var _ rpc.Controller = (*Controller)(nil)

// Controller ties a registry and its block processor to a database.
type Controller struct {
	config  *config.Config
	genesis *genesis.Genesis
	db      state.Database

	registry  *registry.Registry
	ledger    *payment.Ledger
	processor *chain.Processor

	subs   []event.Subscription[event.Event]
	log    logging.Logger
	tracer trace.Tracer
}

// New applies [g] to [db] if it has never been initialized and restores the
// last accepted height otherwise. Every factory is built once and its
// subscription receives the registry events until [Controller.Close].
func New(
	ctx context.Context,
	cfg *config.Config,
	g *genesis.Genesis,
	db state.Database,
	log logging.Logger,
	tracer trace.Tracer,
	reg prometheus.Registerer,
	factories ...event.SubscriptionFactory[event.Event],
) (*Controller, error) {
	subs, err := event.Build(factories...)
	if err != nil {
		return nil, err
	}
	c, err := newController(ctx, cfg, g, db, log, tracer, reg, subs)
	if err != nil {
		return nil, errors.Join(err, event.CloseAll(subs...))
	}
	return c, nil
}

func newController(
	ctx context.Context,
	cfg *config.Config,
	g *genesis.Genesis,
	db state.Database,
	log logging.Logger,
	tracer trace.Tracer,
	reg prometheus.Registerer,
	subs []event.Subscription[event.Event],
) (*Controller, error) {
	ledger := payment.New(cfg.ExistentialDeposit)
	beacon := randomness.NewHashChain(g.RandomSeed, 0)
	r, err := registry.New(cfg, ledger, log, tracer, reg, subs...)
	if err != nil {
		return nil, err
	}
	p, err := chain.NewProcessor(r, beacon, log, tracer, reg)
	if err != nil {
		return nil, err
	}
	switch err := p.Genesis(ctx, db, g); {
	case err == nil:
		log.Info("applied genesis", zap.Int("allocations", len(g.CustomAllocation)))
	case errors.Is(err, chain.ErrGenesisApplied):
	default:
		return nil, err
	}
	if err := p.Init(ctx, db); err != nil {
		return nil, err
	}
	log.Info("initialized controller",
		zap.Uint64("height", p.LastAccepted()),
		zap.Stringer("treasury", cfg.Treasury()),
	)
	return &Controller{
		config:    cfg,
		genesis:   g,
		db:        db,
		registry:  r,
		ledger:    ledger,
		processor: p,
		subs:      subs,
		log:       log,
		tracer:    tracer,
	}, nil
}

// Close closes every subscription built by [New]. The database is owned by
// the caller.
func (c *Controller) Close() error {
	return event.CloseAll(c.subs...)
}

// NextBlock wraps [txs] in a block on top of the last accepted height.
func (c *Controller) NextBlock(txs ...*chain.Transaction) *chain.Block {
	return &chain.Block{
		Height: c.processor.LastAccepted() + 1,
		Txs:    txs,
	}
}

func (c *Controller) Accept(ctx context.Context, blk *chain.Block) ([]*chain.Result, error) {
	return c.processor.Execute(ctx, c.db, blk)
}

func (c *Controller) Kitty(ctx context.Context, id uint64) (*registry.Kitty, error) {
	return c.registry.Kitty(ctx, c.db, id)
}

func (c *Controller) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	return c.ledger.FreeBalance(ctx, c.db, addr)
}

func (c *Controller) ReadState(ctx context.Context, keys [][]byte) ([][]byte, []error) {
	values := make([][]byte, len(keys))
	errs := make([]error, len(keys))
	for i, k := range keys {
		values[i], errs[i] = c.db.GetValue(ctx, k)
	}
	return values, errs
}

func (c *Controller) Genesis() *genesis.Genesis {
	return c.genesis
}

func (c *Controller) LastAccepted() uint64 {
	return c.processor.LastAccepted()
}

func (c *Controller) Treasury() codec.Address {
	return c.registry.Treasury()
}

func (c *Controller) CreateFee() uint64 {
	return c.registry.CreateFee()
}

func (c *Controller) HRP() string {
	return c.config.HRP
}

func (c *Controller) Logger() logging.Logger {
	return c.log
}

func (c *Controller) Tracer() trace.Tracer {
	return c.tracer
}
