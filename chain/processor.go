// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ava-labs/kittyvm/genesis"
	"github.com/ava-labs/kittyvm/keys"
	"github.com/ava-labs/kittyvm/registry"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
	"github.com/ava-labs/kittyvm/tstate"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Result is the outcome of a single transaction.
type Result struct {
	TxID    ids.ID `json:"txID"`
	Success bool   `json:"success"`
	Output  []byte `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// Processor executes blocks against a [state.Database].
//
// Each transaction runs in its own [tstate.TStateView], scoped to the keys
// its action declares. A failing transaction is rolled back and does not
// stop the block. All successful changes are flushed to the database in a
// single batch once the block completes.
type Processor struct {
	l sync.Mutex

	registry *registry.Registry
	beacon   Beacon

	log     logging.Logger
	tracer  trace.Tracer
	metrics *chainMetrics

	lastAccepted atomic.Uint64
}

func NewProcessor(
	r *registry.Registry,
	beacon Beacon,
	log logging.Logger,
	tracer trace.Tracer,
	reg prometheus.Registerer,
) (*Processor, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Processor{
		registry: r,
		beacon:   beacon,
		log:      log,
		tracer:   tracer,
		metrics:  m,
	}, nil
}

// Genesis writes the initial state of [g] into an empty [db].
func (p *Processor) Genesis(ctx context.Context, db state.Database, g *genesis.Genesis) error {
	p.l.Lock()
	defer p.l.Unlock()

	height, err := storage.GetHeight(ctx, db)
	if err != nil {
		return err
	}
	count, err := storage.GetKittiesCount(ctx, db)
	if err != nil {
		return err
	}
	if height > 0 || count > 0 {
		return ErrGenesisApplied
	}
	mem := state.NewInMemoryStore()
	if err := g.Load(ctx, p.tracer, mem); err != nil {
		return err
	}
	return db.Apply(ctx, mem.Changes())
}

// Init restores the last accepted height from [im].
func (p *Processor) Init(ctx context.Context, im state.Immutable) error {
	p.l.Lock()
	defer p.l.Unlock()

	height, err := storage.GetHeight(ctx, im)
	if err != nil {
		return err
	}
	seed, ok, err := storage.GetSeed(ctx, im)
	if err != nil {
		return err
	}
	if ok {
		p.beacon.Restore(height, seed)
	}
	p.lastAccepted.Store(height)
	p.metrics.lastAccepted.Set(float64(height))
	return nil
}

// LastAccepted is the height of the last block written to the database. It
// is safe to call concurrently with [Execute].
func (p *Processor) LastAccepted() uint64 {
	return p.lastAccepted.Load()
}

// Execute runs every transaction in [blk] in order. It only returns an error
// if the block itself could not be processed, in which case nothing is
// written to [db].
func (p *Processor) Execute(ctx context.Context, db state.Database, blk *Block) ([]*Result, error) {
	p.l.Lock()
	defer p.l.Unlock()

	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "Processor.Execute", oteltrace.WithAttributes(
		attribute.String("height", strconv.FormatUint(blk.Height, 10)),
		attribute.Int("txs", len(blk.Txs)),
	))
	defer span.End()

	parent, err := storage.GetHeight(ctx, db)
	if err != nil {
		return nil, err
	}
	if blk.Height != parent+1 {
		return nil, fmt.Errorf("%w: expected %d but got %d", ErrInvalidHeight, parent+1, blk.Height)
	}
	prevSeed, err := p.beacon.Sample(ctx)
	if err != nil {
		return nil, err
	}
	parentDigest, _, err := storage.GetBlockDigest(ctx, db)
	if err != nil {
		return nil, err
	}
	digest, err := blk.Digest()
	if err != nil {
		return nil, err
	}
	if err := p.beacon.Advance(blk.Height, parentDigest); err != nil {
		return nil, err
	}
	accepted := false
	defer func() {
		if !accepted {
			p.beacon.Restore(parent, prevSeed)
		}
	}()
	seed, err := p.beacon.Sample(ctx)
	if err != nil {
		return nil, err
	}

	var (
		ts      = tstate.New(len(blk.Txs) * 4)
		reader  = ts.Reader(db)
		results = make([]*Result, len(blk.Txs))
		failed  int
	)
	for i, tx := range blk.Txs {
		result, err := p.executeTx(ctx, ts, reader, db, tx, registry.Context{
			Actor: tx.Actor,
			Seed:  seed,
			Index: uint64(i),
		})
		if err != nil {
			return nil, err
		}
		if !result.Success {
			failed++
		}
		results[i] = result
	}

	// Record the height and beacon with the rest of the block.
	blockKeys := state.Keys{
		string(storage.HeightKey()): state.All,
		string(storage.SeedKey()):   state.All,
		string(storage.DigestKey()): state.All,
	}
	blockStorage, err := state.ReadKeys(ctx, db, blockKeys)
	if err != nil {
		return nil, err
	}
	tsv := ts.NewView(blockKeys, blockStorage)
	if err := storage.SetHeight(ctx, tsv, blk.Height); err != nil {
		return nil, err
	}
	if err := storage.SetSeed(ctx, tsv, seed); err != nil {
		return nil, err
	}
	if err := storage.SetBlockDigest(ctx, tsv, digest); err != nil {
		return nil, err
	}
	tsv.Commit()

	changes, ops := ts.PendingChanges(), ts.OpIndex()
	if err := ts.Flush(ctx, db); err != nil {
		return nil, err
	}
	accepted = true
	p.lastAccepted.Store(blk.Height)

	p.metrics.blocksAccepted.Inc()
	p.metrics.txsAccepted.Add(float64(len(blk.Txs) - failed))
	p.metrics.txsFailed.Add(float64(failed))
	p.metrics.stateChanges.Add(float64(changes))
	p.metrics.stateOperations.Add(float64(ops))
	p.metrics.lastAccepted.Set(float64(blk.Height))
	p.metrics.blockProcess.Observe(float64(time.Since(start)))
	span.SetAttributes(
		attribute.Int("failed", failed),
		attribute.Int("stateChanges", changes),
	)
	p.log.Info("accepted block",
		zap.Uint64("height", blk.Height),
		zap.Int("txs", len(blk.Txs)),
		zap.Int("failed", failed),
		zap.Int("stateChanges", changes),
		zap.Duration("t", time.Since(start)),
	)
	return results, nil
}

func (p *Processor) executeTx(
	ctx context.Context,
	ts *tstate.TState,
	reader state.Immutable,
	db state.Immutable,
	tx *Transaction,
	rctx registry.Context,
) (*Result, error) {
	txID, err := tx.ID()
	if err != nil {
		return nil, err
	}
	stateKeys, err := tx.Action.StateKeys(ctx, p.registry, reader, tx.Actor)
	if err != nil {
		return nil, err
	}
	for k := range stateKeys {
		if !keys.Valid([]byte(k)) {
			return nil, fmt.Errorf("%w: tx=%s", ErrInvalidStateKey, txID)
		}
	}
	scopeStorage, err := state.ReadKeys(ctx, db, stateKeys)
	if err != nil {
		return nil, err
	}

	tsv := ts.NewView(stateKeys, scopeStorage)
	output, err := tx.Action.Execute(ctx, p.registry, tsv, rctx)
	if err != nil {
		tsv.Rollback(ctx, 0)
		p.log.Debug("transaction failed",
			zap.Stringer("txID", txID),
			zap.Uint64("index", rctx.Index),
			zap.Error(err),
		)
		return &Result{
			TxID:  txID,
			Error: err.Error(),
			Kind:  registry.ErrorKind(err),
		}, nil
	}
	tsv.Commit()
	return &Result{
		TxID:    txID,
		Success: true,
		Output:  output,
	}, nil
}
