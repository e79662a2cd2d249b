package core_test

import (
	"context"
	"testing"

	"github.com/DomeLiquid/dsc/core"
	"github.com/DomeLiquid/dsc/sim"
	"github.com/DomeLiquid/dsc/store"
	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	wethAssetId = "43d61dcd-e413-450d-80b8-101d5e903357"
	wbtcAssetId = "c6d0c728-2624-429b-8e0d-d9d19b6592fa"

	ethFeed = "eth-usd"
	btcFeed = "btc-usd"

	feedDecimals int32 = 8
)

func e18(v int64) decimal.Decimal {
	return decimal.New(v, 18)
}

type fixture struct {
	ctx      context.Context
	clk      *clock.Mock
	feed     *sim.PriceFeed
	tokens   *sim.TokenLedger
	dsc      *sim.LiabilityLedger
	accounts *store.AccountStore
	events   *store.EventStore
	engine   *core.Engine
}

func newFixture(t *testing.T, opts ...core.OptionFunc) *fixture {
	t.Helper()

	registry, err := core.NewAssetRegistry([]*core.CollateralAsset{
		{AssetId: wethAssetId, Symbol: "WETH", Decimals: 18},
		{AssetId: wbtcAssetId, Symbol: "WBTC", Decimals: 8},
	}, []string{ethFeed, btcFeed})
	require.NoError(t, err)

	f := &fixture{
		ctx:      context.Background(),
		clk:      clock.NewMock(),
		tokens:   sim.NewTokenLedger(),
		accounts: store.NewAccountStore(),
		events:   store.NewEventStore(),
	}
	f.feed = sim.NewPriceFeed(f.clk)
	f.setPrice(ethFeed, 2000)
	f.setPrice(btcFeed, 1000)

	engineId := uuid.Must(uuid.NewV4())
	f.dsc = sim.NewLiabilityLedger(engineId)
	opts = append([]core.OptionFunc{
		core.WithClock(f.clk),
		core.WithEngineId(engineId),
		core.WithEventSinks(f.events),
	}, opts...)
	f.engine = core.NewEngine(registry, f.feed, f.dsc, f.tokens, f.accounts, opts...)
	return f
}

func (f *fixture) setPrice(feedId string, usd int64) {
	f.feed.SetPrice(feedId, decimal.New(usd, feedDecimals), feedDecimals)
}

func (f *fixture) newUser() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// fund credits user with amount of assetId and approves the engine to pull it.
func (f *fixture) fund(user uuid.UUID, assetId string, amount decimal.Decimal) {
	f.tokens.Faucet(assetId, user, amount)
	f.tokens.Approve(assetId, user, f.engine.Id, amount)
}

func (f *fixture) deposit(t *testing.T, user uuid.UUID, assetId string, amount decimal.Decimal) {
	t.Helper()
	f.fund(user, assetId, amount)
	require.NoError(t, f.engine.DepositCollateral(f.ctx, user, assetId, amount))
}

func (f *fixture) approveDsc(user uuid.UUID, amount decimal.Decimal) {
	f.dsc.Approve(user, f.engine.Id, amount)
}

func (f *fixture) collateral(t *testing.T, user uuid.UUID, assetId string) decimal.Decimal {
	t.Helper()
	amount, err := f.engine.CollateralBalance(f.ctx, user, assetId)
	require.NoError(t, err)
	return amount
}

func (f *fixture) debt(t *testing.T, user uuid.UUID) decimal.Decimal {
	t.Helper()
	amount, err := f.engine.MintedDebt(f.ctx, user)
	require.NoError(t, err)
	return amount
}

func (f *fixture) healthFactor(t *testing.T, user uuid.UUID) decimal.Decimal {
	t.Helper()
	hf, err := f.engine.HealthFactor(f.ctx, user)
	require.NoError(t, err)
	return hf
}

func requireDecimal(t *testing.T, expected, actual decimal.Decimal) {
	t.Helper()
	require.True(t, expected.Equal(actual), "expected %s, got %s", expected, actual)
}
