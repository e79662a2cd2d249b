package metrics

import (
	"context"
	"testing"

	"github.com/DomeLiquid/dsc/core"
	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCollector_HandleEvent(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock()
	c := NewCollector(prometheus.NewRegistry())
	userId := uuid.Must(uuid.NewV4())
	txId := uuid.Must(uuid.NewV4())

	c.HandleEvent(ctx, core.NewEvent(clk, txId, 0, core.ActionDeposit, userId, core.EventDetail{AssetId: "weth", Amount: decimal.NewFromInt(10)}))
	c.HandleEvent(ctx, core.NewEvent(clk, txId, 1, core.ActionMint, userId, core.EventDetail{Amount: decimal.NewFromInt(5)}))
	c.HandleEvent(ctx, core.NewEvent(clk, txId, 2, core.ActionRedeem, userId, core.EventDetail{AssetId: "weth", Amount: decimal.NewFromInt(3)}))
	c.HandleEvent(ctx, core.NewEvent(clk, txId, 3, core.ActionLiquidate, userId, core.EventDetail{AssetId: "weth", Amount: decimal.NewFromInt(3)}))

	assert.Equal(t, float64(10), testutil.ToFloat64(c.collateralIn.WithLabelValues("weth")))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.collateralOut.WithLabelValues("weth")))
	assert.Equal(t, float64(5), testutil.ToFloat64(c.dscMinted))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.liquidations.WithLabelValues("weth")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.events.WithLabelValues("CollateralDeposited")))
	assert.Equal(t, 4, testutil.CollectAndCount(c.events))
}

func TestCollector_HandleRejection(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.HandleRejection(context.Background(), core.ActionMint, &core.HealthFactorError{Value: decimal.Zero})
	c.HandleRejection(context.Background(), core.ActionMint, errors.Wrap(core.ErrMintFailed, "mint"))
	c.HandleRejection(context.Background(), core.ActionMint, errors.Wrap(core.ErrMintFailed, "mint"))

	assert.Equal(t, float64(1), testutil.ToFloat64(c.rejections.WithLabelValues("DscMinted", "InvariantViolation")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.rejections.WithLabelValues("DscMinted", "ExternalCallFailed")))
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
