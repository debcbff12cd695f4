// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/config"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/event"
	"github.com/ava-labs/kittyvm/genome"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Kitty is the full record of a single kitty.
type Kitty struct {
	ID     uint64        `json:"id"`
	Genome genome.Genome `json:"genome"`
	Owner  codec.Address `json:"owner"`

	// Zero when not for sale.
	Price uint64 `json:"price"`
}

// Registry creates, breeds, transfers and trades kitties.
//
// Every operation checks all of its preconditions and settles payment before
// writing to [state.Mutable]. A failed operation leaves the state unchanged.
type Registry struct {
	createFee    uint64
	treasury     codec.Address
	clearListing bool

	payment Payment
	subs    []event.Subscription[event.Event]

	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics
}

func New(
	cfg *config.Config,
	payment Payment,
	log logging.Logger,
	tracer trace.Tracer,
	r prometheus.Registerer,
	subs ...event.Subscription[event.Event],
) (*Registry, error) {
	m, err := newMetrics(r)
	if err != nil {
		return nil, err
	}
	return &Registry{
		createFee:    cfg.KittyCreateFee,
		treasury:     cfg.Treasury(),
		clearListing: cfg.ClearListingOnTransfer,
		payment:      payment,
		subs:         subs,
		log:          log,
		tracer:       tracer,
		metrics:      m,
	}, nil
}

// Treasury is the account that receives creation fees.
func (r *Registry) Treasury() codec.Address {
	return r.treasury
}

func (r *Registry) CreateFee() uint64 {
	return r.createFee
}

func (r *Registry) notify(ctx context.Context, events ...event.Event) {
	for _, e := range events {
		if err := event.NotifyAll(ctx, e, r.subs...); err != nil {
			r.log.Warn("failed to deliver event",
				zap.Stringer("kind", e.Kind),
				zap.Uint64("kittyID", e.KittyID),
				zap.Error(err),
			)
		}
	}
}

func (r *Registry) start(ctx context.Context, name string, rctx Context, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	attrs = append(attrs,
		attribute.String("actor", rctx.Actor.String()),
		attribute.String("index", strconv.FormatUint(rctx.Index, 10)),
	)
	return r.tracer.Start(ctx, name, oteltrace.WithAttributes(attrs...))
}

// Create charges the creation fee and mints a kitty without parents owned by
// the actor.
func (r *Registry) Create(ctx context.Context, mu state.Mutable, rctx Context) (uint64, error) {
	ctx, span := r.start(ctx, "Registry.Create", rctx)
	defer span.End()

	id, err := r.create(ctx, mu, rctx)
	if err != nil {
		r.metrics.fail("create", err)
		return 0, err
	}
	r.metrics.created.Inc()
	r.metrics.feesPaid.Add(float64(r.createFee))
	r.log.Debug("created kitty",
		zap.Stringer("owner", rctx.Actor),
		zap.Uint64("kittyID", id),
	)
	r.notify(ctx, event.Event{Kind: event.Created, Owner: rctx.Actor, KittyID: id})
	return id, nil
}

func (r *Registry) create(ctx context.Context, mu state.Mutable, rctx Context) (uint64, error) {
	count, err := storage.GetKittiesCount(ctx, mu)
	if err != nil {
		return 0, err
	}
	// An overflow must not charge the fee.
	if count == consts.MaxUint64 {
		return 0, fmt.Errorf("%w: count=%d", ErrCounterOverflow, count)
	}
	if err := r.payment.Transfer(ctx, mu, rctx.Actor, r.treasury, r.createFee, true); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}
	id, err := storage.NextKittyID(ctx, mu)
	if err != nil {
		return 0, err
	}
	g := genome.Originate(rctx.Seed, rctx.Actor, rctx.Index)
	if err := storage.SetGenome(ctx, mu, id, g); err != nil {
		return 0, err
	}
	return id, storage.SetOwner(ctx, mu, id, rctx.Actor)
}

// Transfer gives kitty [id] to [to].
func (r *Registry) Transfer(ctx context.Context, mu state.Mutable, rctx Context, to codec.Address, id uint64) error {
	ctx, span := r.start(ctx, "Registry.Transfer", rctx,
		attribute.String("kittyID", strconv.FormatUint(id, 10)),
		attribute.String("to", to.String()),
	)
	defer span.End()

	if err := r.transfer(ctx, mu, rctx, to, id); err != nil {
		r.metrics.fail("transfer", err)
		return err
	}
	r.metrics.transferred.Inc()
	r.log.Debug("transferred kitty",
		zap.Stringer("from", rctx.Actor),
		zap.Stringer("to", to),
		zap.Uint64("kittyID", id),
	)
	r.notify(ctx, event.Event{Kind: event.Transferred, From: rctx.Actor, To: to, KittyID: id})
	return nil
}

func (r *Registry) transfer(ctx context.Context, mu state.Mutable, rctx Context, to codec.Address, id uint64) error {
	owner, exists, err := storage.GetOwner(ctx, mu, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: id=%d", ErrKittyNotExist, id)
	}
	if owner != rctx.Actor {
		return fmt.Errorf("%w: id=%d", ErrNotOwner, id)
	}
	if err := storage.SetOwner(ctx, mu, id, to); err != nil {
		return err
	}
	// Giving a kitty to its owner keeps the listing.
	if r.clearListing && to != rctx.Actor {
		return storage.DeletePrice(ctx, mu, id)
	}
	return nil
}

// Breed mints a kitty whose genome mixes the genomes of [a] and [b]. The
// actor must own both parents.
func (r *Registry) Breed(ctx context.Context, mu state.Mutable, rctx Context, a uint64, b uint64) (uint64, error) {
	ctx, span := r.start(ctx, "Registry.Breed", rctx,
		attribute.String("parentA", strconv.FormatUint(a, 10)),
		attribute.String("parentB", strconv.FormatUint(b, 10)),
	)
	defer span.End()

	id, err := r.breed(ctx, mu, rctx, a, b)
	if err != nil {
		r.metrics.fail("breed", err)
		return 0, err
	}
	r.metrics.bred.Inc()
	r.log.Debug("bred kitty",
		zap.Stringer("owner", rctx.Actor),
		zap.Uint64("parentA", a),
		zap.Uint64("parentB", b),
		zap.Uint64("kittyID", id),
	)
	r.notify(ctx, event.Event{Kind: event.Created, Owner: rctx.Actor, KittyID: id})
	return id, nil
}

func (r *Registry) breed(ctx context.Context, mu state.Mutable, rctx Context, a uint64, b uint64) (uint64, error) {
	if a == b {
		return 0, fmt.Errorf("%w: id=%d", ErrSameParentIndex, a)
	}
	parentIDs := [2]uint64{a, b}
	for _, id := range parentIDs {
		owned, err := storage.IsOwner(ctx, mu, id, rctx.Actor)
		if err != nil {
			return 0, err
		}
		if !owned {
			return 0, fmt.Errorf("%w: id=%d", ErrNotOwner, id)
		}
	}
	parents := [2]genome.Genome{}
	for i, id := range parentIDs {
		g, ok, err := storage.GetGenome(ctx, mu, id)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%w: id=%d", ErrInvalidKittyIndex, id)
		}
		parents[i] = g
	}
	id, err := storage.NextKittyID(ctx, mu)
	if err != nil {
		return 0, err
	}
	sel := genome.Selector(rctx.Seed, rctx.Actor, rctx.Index)
	child := genome.Crossover(sel, parents[0], parents[1])
	if err := storage.SetGenome(ctx, mu, id, child); err != nil {
		return 0, err
	}
	return id, storage.SetOwner(ctx, mu, id, rctx.Actor)
}

// ListForSale puts kitty [id] up for sale at [price]. A zero price takes it
// off the market.
func (r *Registry) ListForSale(ctx context.Context, mu state.Mutable, rctx Context, id uint64, price uint64) error {
	ctx, span := r.start(ctx, "Registry.ListForSale", rctx,
		attribute.String("kittyID", strconv.FormatUint(id, 10)),
		attribute.String("price", strconv.FormatUint(price, 10)),
	)
	defer span.End()

	if err := r.list(ctx, mu, rctx, id, price); err != nil {
		r.metrics.fail("list", err)
		return err
	}
	r.metrics.listed.Inc()
	r.log.Debug("listed kitty",
		zap.Stringer("owner", rctx.Actor),
		zap.Uint64("kittyID", id),
		zap.Uint64("price", price),
	)
	r.notify(ctx, event.Event{Kind: event.Listed, Owner: rctx.Actor, KittyID: id, Price: price})
	return nil
}

func (*Registry) list(ctx context.Context, mu state.Mutable, rctx Context, id uint64, price uint64) error {
	owned, err := storage.IsOwner(ctx, mu, id, rctx.Actor)
	if err != nil {
		return err
	}
	if !owned {
		return fmt.Errorf("%w: id=%d", ErrNotOwner, id)
	}
	if price == 0 {
		return storage.DeletePrice(ctx, mu, id)
	}
	return storage.SetPrice(ctx, mu, id, price)
}

// BuyKitty pays the listed price of [id] to its owner and hands the kitty to
// the actor.
func (r *Registry) BuyKitty(ctx context.Context, mu state.Mutable, rctx Context, id uint64) error {
	ctx, span := r.start(ctx, "Registry.BuyKitty", rctx,
		attribute.String("kittyID", strconv.FormatUint(id, 10)),
	)
	defer span.End()

	seller, price, err := r.buy(ctx, mu, rctx, id)
	if err != nil {
		r.metrics.fail("buy", err)
		return err
	}
	r.metrics.bought.Inc()
	r.metrics.volume.Add(float64(price))
	r.log.Debug("bought kitty",
		zap.Stringer("buyer", rctx.Actor),
		zap.Stringer("seller", seller),
		zap.Uint64("kittyID", id),
		zap.Uint64("price", price),
	)
	r.notify(ctx,
		event.Event{Kind: event.Transferred, From: seller, To: rctx.Actor, KittyID: id},
		event.Event{Kind: event.Bought, From: rctx.Actor, To: seller, KittyID: id, Price: price},
	)
	return nil
}

func (r *Registry) buy(ctx context.Context, mu state.Mutable, rctx Context, id uint64) (codec.Address, uint64, error) {
	price, listed, err := storage.GetPrice(ctx, mu, id)
	if err != nil {
		return codec.EmptyAddress, 0, err
	}
	if !listed || price == 0 {
		return codec.EmptyAddress, 0, fmt.Errorf("%w: id=%d", ErrKittyNotForSale, id)
	}
	seller, exists, err := storage.GetOwner(ctx, mu, id)
	if err != nil {
		return codec.EmptyAddress, 0, err
	}
	if !exists {
		return codec.EmptyAddress, 0, fmt.Errorf("%w: id=%d", ErrNotOwner, id)
	}
	if err := r.payment.Transfer(ctx, mu, rctx.Actor, seller, price, true); err != nil {
		return codec.EmptyAddress, 0, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}
	if err := storage.SetOwner(ctx, mu, id, rctx.Actor); err != nil {
		return codec.EmptyAddress, 0, err
	}
	return seller, price, storage.DeletePrice(ctx, mu, id)
}

// Kitty returns kitty [id] or [ErrKittyNotExist].
func (*Registry) Kitty(ctx context.Context, im state.Immutable, id uint64) (*Kitty, error) {
	exists, g, owner, price, err := storage.GetKitty(ctx, im, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id=%d", ErrKittyNotExist, id)
	}
	return &Kitty{ID: id, Genome: g, Owner: owner, Price: price}, nil
}

// KittiesCount returns the number of kitties ever created.
func (*Registry) KittiesCount(ctx context.Context, im state.Immutable) (uint64, error) {
	return storage.GetKittiesCount(ctx, im)
}
