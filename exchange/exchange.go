// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package exchange runs every ledger, pool and routing operation as a
// serialized, all-or-nothing unit over a shared key/value store.
//
// Each call declares the keys it may touch, locks them in sorted order,
// executes against a view restricted to those keys and writes the view's
// changes in a single batch only if the call succeeds. Events are
// published after the batch is written.
package exchange

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/shieldswap/access"
	"github.com/ava-labs/shieldswap/amm"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/event"
	"github.com/ava-labs/shieldswap/ledger"
	"github.com/ava-labs/shieldswap/lockmap"
	"github.com/ava-labs/shieldswap/registry"
	"github.com/ava-labs/shieldswap/router"
	"github.com/ava-labs/shieldswap/state"
	"github.com/ava-labs/shieldswap/storage"
	"github.com/ava-labs/shieldswap/token"
	"github.com/ava-labs/shieldswap/tstate"

	oteltrace "go.opentelemetry.io/otel/trace"
)

const initialLocks = 1_024

// Database is the store an Exchange reads from and commits to.
type Database interface {
	database.KeyValueReader
	database.Batcher
	database.Iteratee
	io.Closer
}

type inFlightKey struct{}

// inFlight is the operation a call chain is running and the keys it holds.
type inFlight struct {
	op   string
	held set.Set[string]
}

type Exchange struct {
	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics
	clock   mockable.Clock

	db    Database
	ts    *tstate.TState
	locks *lockmap.Lockmap

	tokens   token.Ledger
	ledger   *ledger.Ledger
	registry *registry.Registry
	engine   *amm.Engine
	router   *router.Router

	feed   *event.Feed[Event]
	seq    atomic.Uint64
	closed atomic.Bool
}

// New wires the ledger, registry, engine and router over [db]. Plaintext
// token movements go through [tokens].
func New(
	log logging.Logger,
	tracer trace.Tracer,
	reg prometheus.Registerer,
	db Database,
	tokens token.Ledger,
) (*Exchange, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	r := registry.New()
	engine := amm.New(r, tokens)
	return &Exchange{
		log:      log,
		tracer:   tracer,
		metrics:  m,
		db:       db,
		ts:       tstate.New(db),
		locks:    lockmap.New(initialLocks),
		tokens:   tokens,
		ledger:   ledger.New(tokens),
		registry: r,
		engine:   engine,
		router:   router.New(r, engine),
		feed:     event.NewFeed[Event](),
	}, nil
}

// Clock is the time source for deadlines and record timestamps.
func (e *Exchange) Clock() *mockable.Clock {
	return &e.clock
}

// Subscribe registers [sub] for every committed event. The returned
// function unsubscribes it.
func (e *Exchange) Subscribe(sub event.Subscription[Event]) func() error {
	return e.feed.Subscribe(sub)
}

// Close detaches all subscribers. The database is owned by the caller.
func (e *Exchange) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	return e.feed.Close()
}

// enter rejects calls made while another exchange operation is running on
// the same call chain, such as from a token ledger callback. The chain is
// tracked through [ctx] only, so callbacks must not detach from it.
func (e *Exchange) enter(ctx context.Context, op string, keys state.Keys) (context.Context, oteltrace.Span, error) {
	if outer, ok := ctx.Value(inFlightKey{}).(*inFlight); ok {
		e.metrics.reentrant.Inc()
		overlap := 0
		for k := range keys {
			if outer.held.Contains(k) {
				overlap++
			}
		}
		return ctx, nil, fmt.Errorf("%w: %s called from %s (%d held keys requested)", ErrReentrant, op, outer.op, overlap)
	}
	ctx = context.WithValue(ctx, inFlightKey{}, &inFlight{
		op:   op,
		held: set.Of(maps.Keys(keys)...),
	})
	ctx, span := e.tracer.Start(ctx, "Exchange."+op, oteltrace.WithAttributes(
		attribute.Int("keys", len(keys)),
	))
	return ctx, span, nil
}

func (e *Exchange) finish(op string, span oteltrace.Span, err error, start time.Time) {
	e.metrics.observe(op, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.log.Debug("operation failed",
			zap.String("op", op),
			zap.Error(err),
		)
	}
	span.End()
}

// execute runs [f] atomically over [keys]. [f] receives the operation
// timestamp in unix milliseconds and returns the events to publish.
func (e *Exchange) execute(
	ctx context.Context,
	op string,
	actor codec.Address,
	keys state.Keys,
	f func(context.Context, state.Mutable, int64) ([]Event, error),
) error {
	if err := access.RequireAccount(actor); err != nil {
		return err
	}
	opCtx, span, err := e.enter(ctx, op, keys)
	if err != nil {
		return err
	}
	start := time.Now()
	now := e.clock.Time().UnixMilli()

	unlock := e.locks.LockKeys(keys)
	view := e.ts.NewView(keys)
	events, err := f(opCtx, view, now)
	if err == nil {
		span.SetAttributes(attribute.Int("changes", view.PendingChanges()))
		err = view.Commit()
	}
	unlock()

	e.finish(op, span, err, start)
	if err != nil {
		return err
	}
	// subscribers run outside the operation and may call back in
	e.publish(ctx, events, now)
	return nil
}

// read runs [f] under shared locks on [keys].
func (e *Exchange) read(ctx context.Context, op string, keys state.Keys, f func(context.Context, state.Immutable) error) error {
	keys = readOnly(keys)
	ctx, span, err := e.enter(ctx, op, keys)
	if err != nil {
		return err
	}
	start := time.Now()

	unlock := e.locks.LockKeys(keys)
	err = f(ctx, e.ts.NewView(keys))
	unlock()

	e.finish(op, span, err, start)
	return err
}

func (e *Exchange) publish(ctx context.Context, events []Event, now int64) {
	for _, ev := range events {
		ev.Seq = e.seq.Inc()
		ev.Timestamp = now
		e.metrics.events.Inc()
		if err := e.feed.Send(ctx, ev); err != nil {
			e.metrics.eventErrs.Inc()
			e.log.Warn("subscriber rejected event",
				zap.Uint64("seq", ev.Seq),
				zap.String("kind", string(ev.Kind)),
				zap.Error(err),
			)
		}
	}
}

// pool reads a pool record outside of any lock. Only immutable fields
// (id and tokens) may be relied on, to declare the keys of the call that
// will read it again under lock.
func (e *Exchange) pool(ctx context.Context, poolID ids.ID) (*storage.Pool, error) {
	p, exists, err := storage.GetPool(ctx, dbState{e.db}, poolID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", registry.ErrPoolNotFound, poolID)
	}
	return p, nil
}

// ListPools returns every pool in id order.
func (e *Exchange) ListPools(context.Context) ([]*storage.Pool, error) {
	iter := e.db.NewIteratorWithPrefix(storage.PoolPrefix())
	defer iter.Release()

	var pools []*storage.Pool
	for iter.Next() {
		p, err := storage.UnmarshalPool(iter.Value())
		if err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, iter.Error()
}

func readOnly(ks state.Keys) state.Keys {
	ro := make(state.Keys, len(ks))
	for k := range ks {
		ro[k] = state.Read
	}
	return ro
}

type dbState struct {
	db database.KeyValueReader
}

func (s dbState) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return s.db.Get(key)
}
