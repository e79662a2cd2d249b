package core

import (
	"context"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type (
	PriceFeed interface {
		LatestPrice(ctx context.Context, feedId string) (*PriceData, error)
	}

	PriceData struct {
		Price     decimal.Decimal `json:"price"`
		Decimals  int32           `json:"decimals"`
		UpdatedAt time.Time       `json:"updatedAt"`
	}
)

// OracleAdapter turns raw feed reads into 18-decimal USD prices.
type OracleAdapter struct {
	feed    PriceFeed
	clk     clock.Clock
	timeout time.Duration
}

func NewOracleAdapter(feed PriceFeed, clk clock.Clock, timeout time.Duration) *OracleAdapter {
	if timeout <= 0 {
		timeout = DEFAULT_ORACLE_TIMEOUT
	}
	return &OracleAdapter{feed: feed, clk: clk, timeout: timeout}
}

func (o *OracleAdapter) Timeout() time.Duration {
	return o.timeout
}

// GetPrice returns the asset's USD price scaled to 18 decimals.
func (o *OracleAdapter) GetPrice(ctx context.Context, asset *CollateralAsset) (decimal.Decimal, error) {
	data, err := o.feed.LatestPrice(ctx, asset.PriceFeedId)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrOracleUnavailable, "feed %s: %v", asset.PriceFeedId, err)
	}
	if data == nil || !data.Price.IsPositive() {
		return decimal.Zero, errors.Wrapf(ErrOracleUnavailable, "feed %s returned a non-positive price", asset.PriceFeedId)
	}
	if data.UpdatedAt.IsZero() {
		return decimal.Zero, errors.Wrapf(ErrStalePrice, "feed %s has no update time", asset.PriceFeedId)
	}
	if age := o.clk.Now().Sub(data.UpdatedAt); age > o.timeout {
		return decimal.Zero, errors.Wrapf(ErrStalePrice, "feed %s is %s old", asset.PriceFeedId, age)
	}
	return ScalePrice(data.Price, data.Decimals), nil
}

// ScalePrice rescales a feed price with the given decimals to 18 decimals.
func ScalePrice(price decimal.Decimal, decimals int32) decimal.Decimal {
	switch {
	case decimals == USD_DECIMALS:
		return price
	case decimals < USD_DECIMALS:
		return price.Mul(Scale(USD_DECIMALS - decimals))
	default:
		return MulDiv(price, ONE, Scale(decimals-USD_DECIMALS))
	}
}
