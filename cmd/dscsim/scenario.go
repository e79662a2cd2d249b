package main

import (
	"context"

	"github.com/DomeLiquid/dsc/config"
	"github.com/DomeLiquid/dsc/core"
	"github.com/DomeLiquid/dsc/metrics"
	"github.com/DomeLiquid/dsc/sim"
	"github.com/DomeLiquid/dsc/store"
	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type world struct {
	cfg     *config.Config
	clk     clock.Clock
	quote   func(col *config.CollateralConfig, usd decimal.Decimal)
	tokens  *sim.TokenLedger
	dsc     *sim.LiabilityLedger
	events  *store.EventStore
	metrics *metrics.Collector
	engine  *core.Engine
}

func newWorld(cfg *config.Config) (*world, error) {
	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	w := &world{
		cfg:     cfg,
		clk:     clock.New(),
		tokens:  sim.NewTokenLedger(),
		events:  store.NewEventStore(),
		metrics: metrics.NewCollector(prometheus.NewRegistry()),
	}
	feed := w.priceSource()
	for i := range cfg.Collaterals {
		w.quote(&cfg.Collaterals[i], cfg.Collaterals[i].InitialPrice)
	}

	logger := cfg.Logger()
	engineId := uuid.Must(uuid.NewV4())
	w.dsc = sim.NewLiabilityLedger(engineId)
	w.engine = core.NewEngine(registry, feed, w.dsc, w.tokens, store.NewAccountStore(),
		core.WithClock(w.clk),
		core.WithLogger(&logger),
		core.WithEngineId(engineId),
		core.WithOracleTimeout(cfg.Oracle.Timeout),
		core.WithEventSinks(w.events, w.metrics),
	)
	return w, nil
}

// priceSource builds the configured price feed and sets w.quote to drive it.
func (w *world) priceSource() core.PriceFeed {
	if w.cfg.Oracle.Source == config.OracleSourceMarket {
		board := sim.NewMarketBoard(w.clk)
		w.quote = func(col *config.CollateralConfig, usd decimal.Decimal) {
			board.SetQuote(col.PriceFeedId, usd, col.AssetId)
		}
		return core.NewMarketPriceFeed(board)
	}

	feed := sim.NewPriceFeed(w.clk)
	w.quote = func(col *config.CollateralConfig, usd decimal.Decimal) {
		decimals := col.PriceDecimals()
		feed.SetPrice(col.PriceFeedId, usd.Shift(decimals).Truncate(0), decimals)
	}
	return feed
}

func (w *world) collateral(symbolOrId string) (*config.CollateralConfig, error) {
	for i, col := range w.cfg.Collaterals {
		if col.AssetId == symbolOrId || col.Symbol == symbolOrId {
			return &w.cfg.Collaterals[i], nil
		}
	}
	return nil, errors.Wrap(core.ErrUnknownAsset, symbolOrId)
}

// openPosition funds user with amount raw units, deposits them and mints debt.
func (w *world) openPosition(ctx context.Context, user uuid.UUID, col *config.CollateralConfig, amount, debt decimal.Decimal) error {
	w.tokens.Faucet(col.AssetId, user, amount)
	w.tokens.Approve(col.AssetId, user, w.engine.Id, amount)
	if err := w.engine.DepositCollateralAndMintDsc(ctx, user, col.AssetId, amount, debt); err != nil {
		return err
	}
	w.dsc.Approve(user, w.engine.Id, debt)
	return nil
}

func (w *world) dropPrice(col *config.CollateralConfig, percent int64) {
	w.quote(col, col.InitialPrice.Mul(decimal.NewFromInt(100-percent)).Div(decimal.NewFromInt(100)))
}

func scenarioCommand() *cobra.Command {
	var (
		asset   string
		deposit string
		drop    int64
	)

	c := &cobra.Command{
		Use:   "scenario",
		Short: "Opens a position at the minimum health factor, drops the price and liquidates half of the debt",
		RunE: func(c *cobra.Command, args []string) error {
			if drop <= 0 || drop >= 100 {
				return errors.Errorf("drop must be between 1 and 99, got %d", drop)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			w, err := newWorld(cfg)
			if err != nil {
				return err
			}
			col, err := w.collateral(asset)
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(deposit)
			if err != nil {
				return errors.Wrapf(err, "deposit %q", deposit)
			}
			amount = amount.Shift(col.Decimals).Truncate(0)
			return w.runLiquidation(c, col, amount, drop)
		},
	}
	flags := c.Flags()
	flags.StringVar(&asset, "asset", "WETH", "collateral symbol or asset id")
	flags.StringVar(&deposit, "deposit", "10", "collateral deposited by the borrower, in whole tokens")
	flags.Int64Var(&drop, "drop", 20, "price drop in percent before liquidating")
	return c
}

type scenarioReport struct {
	Borrower   core.Position         `json:"borrower"`
	Liquidator core.Position         `json:"liquidator"`
	Result     *core.LiquidateResult `json:"result"`
	Events     int                   `json:"events"`
}

func (w *world) runLiquidation(c *cobra.Command, col *config.CollateralConfig, amount decimal.Decimal, drop int64) error {
	ctx := c.Context()
	borrower := uuid.Must(uuid.NewV4())
	liquidator := uuid.Must(uuid.NewV4())

	value, err := w.engine.UsdValue(ctx, col.AssetId, amount)
	if err != nil {
		return err
	}
	debt := core.MulDiv(value, decimal.NewFromInt(core.LIQUIDATION_THRESHOLD), decimal.NewFromInt(core.LIQUIDATION_PRECISION))
	if err := w.openPosition(ctx, borrower, col, amount, debt); err != nil {
		return errors.Wrap(err, "open borrower position")
	}

	cover := core.MulDiv(debt, core.ONE, decimal.NewFromInt(2))
	if err := w.openPosition(ctx, liquidator, col, amount.Mul(decimal.NewFromInt(10)), cover); err != nil {
		return errors.Wrap(err, "open liquidator position")
	}

	w.dropPrice(col, drop)

	result, err := w.engine.Liquidate(ctx, liquidator, col.AssetId, borrower, cover)
	if err != nil {
		return errors.Wrap(err, "liquidate")
	}

	report := scenarioReport{Result: result, Events: w.events.Len()}
	if report.Borrower, err = w.engine.Position(ctx, borrower); err != nil {
		return err
	}
	if report.Liquidator, err = w.engine.Position(ctx, liquidator); err != nil {
		return err
	}
	return printJSON(c, report)
}
