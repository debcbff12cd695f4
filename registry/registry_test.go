// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/mock/gomock"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/config"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/event"
	"github.com/ava-labs/kittyvm/genome"
	"github.com/ava-labs/kittyvm/payment"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
)

var (
	alice = codec.CreateAddress(consts.AccountTypeID, ids.ID{1})
	bob   = codec.CreateAddress(consts.AccountTypeID, ids.ID{2})
	carol = codec.CreateAddress(consts.AccountTypeID, ids.ID{3})

	seed = ids.ID{9, 9, 9}

	errSink = errors.New("sink failed")
)

type testRegistry struct {
	*Registry

	mu       *state.InMemoryStore
	ledger   *payment.Ledger
	recorder *event.Recorder
	index    uint64
}

func newTestRegistry(t *testing.T, cfgJSON string, balances map[codec.Address]uint64) *testRegistry {
	require := require.New(t)

	cfg, err := config.New([]byte(cfgJSON))
	require.NoError(err)

	ledger := payment.New(cfg.ExistentialDeposit)
	recorder := event.NewRecorder()
	r, err := New(cfg, ledger, logging.NoLog{}, trace.Noop, prometheus.NewRegistry(), recorder)
	require.NoError(err)

	mu := state.NewInMemoryStore()
	for addr, bal := range balances {
		require.NoError(storage.SetBalance(context.Background(), mu, addr, bal))
	}
	return &testRegistry{
		Registry: r,
		mu:       mu,
		ledger:   ledger,
		recorder: recorder,
	}
}

// rctx returns a new context for [actor] with the next index.
func (tr *testRegistry) rctx(actor codec.Address) Context {
	tr.index++
	return Context{Actor: actor, Seed: seed, Index: tr.index}
}

func (tr *testRegistry) balance(t *testing.T, addr codec.Address) uint64 {
	bal, err := tr.ledger.FreeBalance(context.Background(), tr.mu, addr)
	require.NoError(t, err)
	return bal
}

func (tr *testRegistry) count(t *testing.T) uint64 {
	count, err := tr.KittiesCount(context.Background(), tr.mu)
	require.NoError(t, err)
	return count
}

func (tr *testRegistry) create(t *testing.T, actor codec.Address) uint64 {
	id, err := tr.Create(context.Background(), tr.mu, tr.rctx(actor))
	require.NoError(t, err)
	return id
}

func TestCreate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: 100})

	rctx := tr.rctx(alice)
	id, err := tr.Create(ctx, tr.mu, rctx)
	require.NoError(err)
	require.Equal(uint64(1), id)
	require.Equal(uint64(1), tr.count(t))

	kitty, err := tr.Kitty(ctx, tr.mu, id)
	require.NoError(err)
	require.Equal(alice, kitty.Owner)
	require.Equal(genome.Originate(seed, alice, rctx.Index), kitty.Genome)
	require.Zero(kitty.Price)

	require.Equal(uint64(95), tr.balance(t, alice))
	require.Equal(uint64(5), tr.balance(t, tr.Treasury()))
	require.Equal(uint64(5), tr.CreateFee())

	require.Equal([]event.Event{{Kind: event.Created, Owner: alice, KittyID: 1}}, tr.recorder.Events())

	id, err = tr.Create(ctx, tr.mu, tr.rctx(alice))
	require.NoError(err)
	require.Equal(uint64(2), id)
	require.Equal(uint64(2), tr.count(t))
	require.Equal(uint64(90), tr.balance(t, alice))
	require.Equal(uint64(10), tr.balance(t, tr.Treasury()))

	first, err := tr.Kitty(ctx, tr.mu, 1)
	require.NoError(err)
	second, err := tr.Kitty(ctx, tr.mu, 2)
	require.NoError(err)
	require.NotEqual(first.Genome, second.Genome)
}

func TestCreatePaymentFailed(t *testing.T) {
	tests := map[string]struct {
		balance     uint64
		expectedErr error
	}{
		"no balance": {
			balance:     0,
			expectedErr: payment.ErrInsufficientBalance,
		},
		"insufficient balance": {
			balance:     4,
			expectedErr: payment.ErrInsufficientBalance,
		},
		"fee would kill account": {
			balance:     5,
			expectedErr: payment.ErrKeepAlive,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: tt.balance})
			before := tr.mu.Clone()

			_, err := tr.Create(context.Background(), tr.mu, tr.rctx(alice))
			require.ErrorIs(err, ErrPaymentFailed)
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(before, tr.mu.Storage)
			require.Empty(tr.recorder.Events())
			require.Equal(1.0, testutil.ToFloat64(tr.metrics.failures.WithLabelValues("create", "payment_failed")))
		})
	}
}

func TestCreateCounterOverflow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: 100})
	require.NoError(storage.SetKittiesCount(ctx, tr.mu, consts.MaxUint64))
	before := tr.mu.Clone()

	_, err := tr.Create(ctx, tr.mu, tr.rctx(alice))
	require.ErrorIs(err, ErrCounterOverflow)
	require.Equal(before, tr.mu.Storage)
	require.Equal(uint64(100), tr.balance(t, alice))
}

func TestCreateWithoutFee(t *testing.T) {
	require := require.New(t)
	tr := newTestRegistry(t, `{"kittyCreateFee": 0}`, nil)

	id := tr.create(t, alice)
	require.Equal(uint64(1), id)
	require.Zero(tr.balance(t, alice))
	require.Zero(tr.balance(t, tr.Treasury()))
}

func TestCreatePaymentMock(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	cfg, err := config.New(nil)
	require.NoError(err)
	p := NewMockPayment(ctrl)
	r, err := New(cfg, p, logging.NoLog{}, trace.Noop, prometheus.NewRegistry())
	require.NoError(err)
	mu := state.NewInMemoryStore()

	errRejected := errors.New("rejected")
	p.EXPECT().Transfer(gomock.Any(), mu, alice, cfg.Treasury(), uint64(5), true).Return(errRejected)
	_, err = r.Create(ctx, mu, Context{Actor: alice})
	require.ErrorIs(err, ErrPaymentFailed)
	require.ErrorIs(err, errRejected)
	require.Empty(mu.Storage)

	p.EXPECT().Transfer(gomock.Any(), mu, alice, cfg.Treasury(), uint64(5), true).Return(nil)
	id, err := r.Create(ctx, mu, Context{Actor: alice})
	require.NoError(err)
	require.Equal(uint64(1), id)
}

func TestBreed(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: 100})

	a := tr.create(t, alice)
	b := tr.create(t, alice)
	parentA, err := tr.Kitty(ctx, tr.mu, a)
	require.NoError(err)
	parentB, err := tr.Kitty(ctx, tr.mu, b)
	require.NoError(err)
	tr.recorder.Reset()

	rctx := tr.rctx(alice)
	id, err := tr.Breed(ctx, tr.mu, rctx, a, b)
	require.NoError(err)
	require.Equal(uint64(3), id)
	require.Equal(uint64(3), tr.count(t))

	child, err := tr.Kitty(ctx, tr.mu, id)
	require.NoError(err)
	require.Equal(alice, child.Owner)
	require.Zero(child.Price)

	sel := genome.Selector(seed, alice, rctx.Index)
	for i := range child.Genome {
		require.Equal((sel[i]&parentA.Genome[i])|(^sel[i]&parentB.Genome[i]), child.Genome[i])
	}

	// breeding is free
	require.Equal(uint64(90), tr.balance(t, alice))
	require.Equal([]event.Event{{Kind: event.Created, Owner: alice, KittyID: 3}}, tr.recorder.Events())
}

func TestBreedErrors(t *testing.T) {
	tests := map[string]struct {
		setup       func(*testing.T, *testRegistry)
		a           uint64
		b           uint64
		expectedErr error
	}{
		"same parent": {
			a:           1,
			b:           1,
			expectedErr: ErrSameParentIndex,
		},
		"same parent not owned": {
			a:           3,
			b:           3,
			expectedErr: ErrSameParentIndex,
		},
		"same parent missing": {
			a:           7,
			b:           7,
			expectedErr: ErrSameParentIndex,
		},
		"first parent not owned": {
			a:           3,
			b:           1,
			expectedErr: ErrNotOwner,
		},
		"second parent not owned": {
			a:           1,
			b:           3,
			expectedErr: ErrNotOwner,
		},
		"parent missing": {
			a:           1,
			b:           7,
			expectedErr: ErrNotOwner,
		},
		"genome missing": {
			setup: func(t *testing.T, tr *testRegistry) {
				require.NoError(t, storage.SetOwner(context.Background(), tr.mu, 7, alice))
			},
			a:           1,
			b:           7,
			expectedErr: ErrInvalidKittyIndex,
		},
		"counter overflow": {
			setup: func(t *testing.T, tr *testRegistry) {
				require.NoError(t, storage.SetKittiesCount(context.Background(), tr.mu, consts.MaxUint64))
			},
			a:           1,
			b:           2,
			expectedErr: ErrCounterOverflow,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: 100, bob: 100})

			// alice owns 1 and 2, bob owns 3
			tr.create(t, alice)
			tr.create(t, alice)
			tr.create(t, bob)
			if tt.setup != nil {
				tt.setup(t, tr)
			}
			tr.recorder.Reset()
			before := tr.mu.Clone()

			_, err := tr.Breed(context.Background(), tr.mu, tr.rctx(alice), tt.a, tt.b)
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(before, tr.mu.Storage)
			require.Empty(tr.recorder.Events())
		})
	}
}

func TestTransfer(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: 100})

	id := tr.create(t, alice)
	tr.recorder.Reset()

	require.NoError(tr.Transfer(ctx, tr.mu, tr.rctx(alice), bob, id))
	kitty, err := tr.Kitty(ctx, tr.mu, id)
	require.NoError(err)
	require.Equal(bob, kitty.Owner)
	require.Equal([]event.Event{{Kind: event.Transferred, From: alice, To: bob, KittyID: id}}, tr.recorder.Events())

	// transferring to yourself is allowed
	require.NoError(tr.Transfer(ctx, tr.mu, tr.rctx(bob), bob, id))
}

func TestTransferErrors(t *testing.T) {
	tests := map[string]struct {
		actor       codec.Address
		id          uint64
		expectedErr error
	}{
		"never created": {
			actor:       alice,
			id:          2,
			expectedErr: ErrKittyNotExist,
		},
		"not owner": {
			actor:       bob,
			id:          1,
			expectedErr: ErrNotOwner,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: 100})
			tr.create(t, alice)
			tr.recorder.Reset()
			before := tr.mu.Clone()

			err := tr.Transfer(context.Background(), tr.mu, tr.rctx(tt.actor), carol, tt.id)
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(before, tr.mu.Storage)
			require.Empty(tr.recorder.Events())
		})
	}
}

func TestTransferListing(t *testing.T) {
	tests := map[string]struct {
		cfg           string
		to            codec.Address
		expectedPrice uint64
	}{
		"clears listing": {
			cfg:           "",
			to:            bob,
			expectedPrice: 0,
		},
		"keeps listing": {
			cfg:           `{"clearListingOnTransfer": false}`,
			to:            bob,
			expectedPrice: 10,
		},
		"self transfer keeps listing": {
			cfg:           "",
			to:            alice,
			expectedPrice: 10,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			tr := newTestRegistry(t, tt.cfg, map[codec.Address]uint64{alice: 100})

			id := tr.create(t, alice)
			require.NoError(tr.ListForSale(ctx, tr.mu, tr.rctx(alice), id, 10))
			require.NoError(tr.Transfer(ctx, tr.mu, tr.rctx(alice), tt.to, id))

			kitty, err := tr.Kitty(ctx, tr.mu, id)
			require.NoError(err)
			require.Equal(tt.to, kitty.Owner)
			require.Equal(tt.expectedPrice, kitty.Price)
		})
	}
}

func TestListForSale(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: 100})

	id := tr.create(t, alice)
	tr.recorder.Reset()

	require.NoError(tr.ListForSale(ctx, tr.mu, tr.rctx(alice), id, 10))
	price, ok, err := storage.GetPrice(ctx, tr.mu, id)
	require.NoError(err)
	require.True(ok)
	require.Equal(uint64(10), price)

	require.NoError(tr.ListForSale(ctx, tr.mu, tr.rctx(alice), id, 20))
	price, _, err = storage.GetPrice(ctx, tr.mu, id)
	require.NoError(err)
	require.Equal(uint64(20), price)

	// delisting twice is fine
	for i := 0; i < 2; i++ {
		require.NoError(tr.ListForSale(ctx, tr.mu, tr.rctx(alice), id, 0))
		_, ok, err = storage.GetPrice(ctx, tr.mu, id)
		require.NoError(err)
		require.False(ok)
	}

	require.Equal([]event.Event{
		{Kind: event.Listed, Owner: alice, KittyID: id, Price: 10},
		{Kind: event.Listed, Owner: alice, KittyID: id, Price: 20},
		{Kind: event.Listed, Owner: alice, KittyID: id},
		{Kind: event.Listed, Owner: alice, KittyID: id},
	}, tr.recorder.Events())
}

func TestListForSaleErrors(t *testing.T) {
	tests := map[string]struct {
		actor codec.Address
		id    uint64
	}{
		"not owner": {
			actor: bob,
			id:    1,
		},
		"never created": {
			actor: alice,
			id:    2,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: 100})
			tr.create(t, alice)
			before := tr.mu.Clone()

			err := tr.ListForSale(context.Background(), tr.mu, tr.rctx(tt.actor), tt.id, 10)
			require.ErrorIs(err, ErrNotOwner)
			require.Equal(before, tr.mu.Storage)
		})
	}
}

func TestCreateListBuy(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: 100, bob: 20})

	id, err := tr.Create(ctx, tr.mu, tr.rctx(alice))
	require.NoError(err)
	require.Equal(uint64(1), id)
	require.Equal(uint64(95), tr.balance(t, alice))

	require.NoError(tr.ListForSale(ctx, tr.mu, tr.rctx(alice), id, 10))
	kitty, err := tr.Kitty(ctx, tr.mu, id)
	require.NoError(err)
	require.Equal(uint64(10), kitty.Price)

	require.NoError(tr.BuyKitty(ctx, tr.mu, tr.rctx(bob), id))
	require.Equal(uint64(10), tr.balance(t, bob))
	require.Equal(uint64(105), tr.balance(t, alice))

	kitty, err = tr.Kitty(ctx, tr.mu, id)
	require.NoError(err)
	require.Equal(bob, kitty.Owner)
	require.Zero(kitty.Price)
	_, listed, err := storage.GetPrice(ctx, tr.mu, id)
	require.NoError(err)
	require.False(listed)

	require.Equal([]event.Event{
		{Kind: event.Created, Owner: alice, KittyID: id},
		{Kind: event.Listed, Owner: alice, KittyID: id, Price: 10},
		{Kind: event.Transferred, From: alice, To: bob, KittyID: id},
		{Kind: event.Bought, From: bob, To: alice, KittyID: id, Price: 10},
	}, tr.recorder.Events())

	require.Equal(1.0, testutil.ToFloat64(tr.metrics.bought))
	require.Equal(10.0, testutil.ToFloat64(tr.metrics.volume))
	require.Equal(5.0, testutil.ToFloat64(tr.metrics.feesPaid))
}

func TestBuyKittyErrors(t *testing.T) {
	tests := map[string]struct {
		setup       func(*testing.T, *testRegistry)
		buyer       codec.Address
		id          uint64
		expectedErr error
	}{
		"never listed": {
			buyer:       bob,
			id:          1,
			expectedErr: ErrKittyNotForSale,
		},
		"never created": {
			buyer:       bob,
			id:          9,
			expectedErr: ErrKittyNotForSale,
		},
		"delisted": {
			setup: func(t *testing.T, tr *testRegistry) {
				ctx := context.Background()
				require.NoError(t, tr.ListForSale(ctx, tr.mu, tr.rctx(alice), 1, 10))
				require.NoError(t, tr.ListForSale(ctx, tr.mu, tr.rctx(alice), 1, 0))
			},
			buyer:       bob,
			id:          1,
			expectedErr: ErrKittyNotForSale,
		},
		"underfunded": {
			setup: func(t *testing.T, tr *testRegistry) {
				require.NoError(t, tr.ListForSale(context.Background(), tr.mu, tr.rctx(alice), 1, 50))
			},
			buyer:       bob,
			id:          1,
			expectedErr: ErrPaymentFailed,
		},
		"would kill buyer": {
			setup: func(t *testing.T, tr *testRegistry) {
				require.NoError(t, tr.ListForSale(context.Background(), tr.mu, tr.rctx(alice), 1, 20))
			},
			buyer:       bob,
			id:          1,
			expectedErr: ErrPaymentFailed,
		},
		"listing without owner": {
			setup: func(t *testing.T, tr *testRegistry) {
				require.NoError(t, storage.SetPrice(context.Background(), tr.mu, 9, 1))
			},
			buyer:       bob,
			id:          9,
			expectedErr: ErrNotOwner,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: 100, bob: 20})
			tr.create(t, alice)
			if tt.setup != nil {
				tt.setup(t, tr)
			}
			tr.recorder.Reset()
			before := tr.mu.Clone()

			err := tr.BuyKitty(context.Background(), tr.mu, tr.rctx(tt.buyer), tt.id)
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(before, tr.mu.Storage)
			require.Empty(tr.recorder.Events())
		})
	}
}

func TestBuyOwnKitty(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tr := newTestRegistry(t, "", map[codec.Address]uint64{alice: 100})

	id := tr.create(t, alice)
	require.NoError(tr.ListForSale(ctx, tr.mu, tr.rctx(alice), id, 10))
	require.NoError(tr.BuyKitty(ctx, tr.mu, tr.rctx(alice), id))

	require.Equal(uint64(95), tr.balance(t, alice))
	kitty, err := tr.Kitty(ctx, tr.mu, id)
	require.NoError(err)
	require.Equal(alice, kitty.Owner)
	require.Zero(kitty.Price)
}

func TestSubscriptionFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	cfg, err := config.New(nil)
	require.NoError(err)
	failing := event.SubscriptionFunc[event.Event]{
		AcceptF: func(context.Context, event.Event) error {
			return errSink
		},
	}
	recorder := event.NewRecorder()
	r, err := New(cfg, payment.New(1), logging.NoLog{}, trace.Noop, prometheus.NewRegistry(), failing, recorder)
	require.NoError(err)

	mu := state.NewInMemoryStore()
	require.NoError(storage.SetBalance(ctx, mu, alice, 100))
	id, err := r.Create(ctx, mu, Context{Actor: alice})
	require.NoError(err)
	require.Equal(uint64(1), id)
	require.Len(recorder.Events(), 1)
}

func TestKittyNotExist(t *testing.T) {
	tr := newTestRegistry(t, "", nil)
	_, err := tr.Kitty(context.Background(), tr.mu, 1)
	require.ErrorIs(t, err, ErrKittyNotExist)
}

func TestErrorKind(t *testing.T) {
	tests := map[string]struct {
		err      error
		expected string
	}{
		"nil": {
			err:      nil,
			expected: "",
		},
		"wrapped payment": {
			err:      fmt.Errorf("%w: %w", ErrPaymentFailed, payment.ErrKeepAlive),
			expected: "payment_failed",
		},
		"storage overflow": {
			err:      fmt.Errorf("%w: count=1", storage.ErrCounterOverflow),
			expected: "counter_overflow",
		},
		"not owner": {
			err:      ErrNotOwner,
			expected: "not_owner",
		},
		"unknown": {
			err:      errSink,
			expected: "internal",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.expected, ErrorKind(tt.err))
		})
	}
}

type recordingTracer struct {
	oteltrace.Tracer
}

func (recordingTracer) Close() error {
	return nil
}

func TestSpanAttributesLargeValues(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	spans := tracetest.NewSpanRecorder()
	tracer := recordingTracer{sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer("test")}
	cfg, err := config.New(nil)
	require.NoError(err)
	r, err := New(cfg, payment.New(cfg.ExistentialDeposit), logging.NoLog{}, tracer, prometheus.NewRegistry())
	require.NoError(err)

	mu := state.NewInMemoryStore()
	require.NoError(storage.SetBalance(ctx, mu, alice, 100))
	rctx := Context{Actor: alice, Seed: seed, Index: math.MaxUint64}
	id, err := r.Create(ctx, mu, rctx)
	require.NoError(err)
	require.NoError(r.ListForSale(ctx, mu, rctx, id, math.MaxUint64))

	var attrs []attribute.KeyValue
	for _, span := range spans.Ended() {
		if span.Name() == "Registry.ListForSale" {
			attrs = span.Attributes()
		}
	}
	require.Contains(attrs, attribute.String("price", "18446744073709551615"))
	require.Contains(attrs, attribute.String("index", "18446744073709551615"))
	require.Contains(attrs, attribute.String("kittyID", "1"))
}
