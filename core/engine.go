package core

import (
	"context"
	"sync"
	"time"

	"github.com/DomeLiquid/dsc/utils"
	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
)

// Engine is the collateral and debt accounting engine. All mutating entry
// points are serialized; a nested call made through the context of an
// in-flight operation fails with ErrReentrantCall.
type Engine struct {
	Id uuid.UUID

	registry *AssetRegistry
	oracle   *OracleAdapter
	dsc      LiabilityLedger
	tokens   CollateralTokens
	accounts AccountStore
	sinks    []EventSink

	clk           clock.Clock
	log           Log
	oracleTimeout time.Duration

	mu sync.RWMutex
}

type OptionFunc func(e *Engine)

func WithClock(clk clock.Clock) OptionFunc {
	return func(e *Engine) {
		e.clk = clk
	}
}

func WithLogger(log Log) OptionFunc {
	return func(e *Engine) {
		e.log = log
	}
}

func WithEventSinks(sinks ...EventSink) OptionFunc {
	return func(e *Engine) {
		e.sinks = append(e.sinks, sinks...)
	}
}

func WithOracleTimeout(timeout time.Duration) OptionFunc {
	return func(e *Engine) {
		e.oracleTimeout = timeout
	}
}

// WithEngineId sets the identity the engine holds collateral under and
// presents to the liability ledger.
func WithEngineId(id uuid.UUID) OptionFunc {
	return func(e *Engine) {
		e.Id = id
	}
}

func NewEngine(registry *AssetRegistry, feed PriceFeed, dsc LiabilityLedger, tokens CollateralTokens, accounts AccountStore, opts ...OptionFunc) *Engine {
	e := &Engine{
		Id:       utils.GenOrderedUuid(append([]string{"dsc-engine"}, registry.AssetIds()...)...),
		registry: registry,
		dsc:      dsc,
		tokens:   tokens,
		accounts: accounts,
		clk:      clock.New(),
		log:      NopLog(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.oracle = NewOracleAdapter(feed, e.clk, e.oracleTimeout)
	return e
}

func (e *Engine) Authority() Authority {
	return Authority{Owner: e.Id}
}

func (e *Engine) Registry() *AssetRegistry {
	return e.registry
}

type guardKey struct{}

// enter takes the write lock for a mutating operation and marks ctx as in-flight.
// Reentrancy is only detected through ctx; a nested call on an unmarked context
// blocks on the lock.
func (e *Engine) enter(ctx context.Context) (context.Context, func(), error) {
	if e.inFlight(ctx) {
		return nil, nil, ErrReentrantCall
	}
	e.mu.Lock()
	return context.WithValue(ctx, guardKey{}, e), e.mu.Unlock, nil
}

// view takes the read lock, unless called back from an in-flight operation
// which already holds the write lock.
func (e *Engine) view(ctx context.Context) func() {
	if e.inFlight(ctx) {
		return func() {}
	}
	e.mu.RLock()
	return e.mu.RUnlock
}

func (e *Engine) inFlight(ctx context.Context) bool {
	owner, _ := ctx.Value(guardKey{}).(*Engine)
	return owner == e
}
