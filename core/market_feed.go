package core

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MarketFeedDecimals is the precision market quotes are truncated to.
const MarketFeedDecimals int32 = 8

type (
	MarketSource interface {
		GetMarketAsset(ctx context.Context, coinId string) (*MarketAssetInfo, error)
	}

	MarketAssetInfo struct {
		CoinID       string          `json:"coin_id"`
		Name         string          `json:"name"`
		Symbol       string          `json:"symbol"`
		CurrentPrice decimal.Decimal `json:"current_price"`
		AssetIDS     []string        `json:"asset_ids"`
		UpdatedAt    time.Time       `json:"updated_at"`
	}

	MarketAPIError struct {
		StatusCode  int
		Code        int
		Description string
	}
)

func (e *MarketAPIError) Error() string {
	return fmt.Sprintf("API error: status=%d, code=%d, description=%s",
		e.StatusCode, e.Code, e.Description)
}

// MarketPriceFeed reads USD quotes from a market data source. Feed ids are the
// source's coin ids.
type MarketPriceFeed struct {
	source MarketSource
}

var _ PriceFeed = (*MarketPriceFeed)(nil)

func NewMarketPriceFeed(source MarketSource) *MarketPriceFeed {
	return &MarketPriceFeed{source: source}
}

func (f *MarketPriceFeed) LatestPrice(ctx context.Context, feedId string) (*PriceData, error) {
	info, err := f.source.GetMarketAsset(ctx, feedId)
	if err != nil {
		return nil, errors.Wrapf(err, "market asset %s", feedId)
	}
	return &PriceData{
		Price:     info.CurrentPrice.Shift(MarketFeedDecimals).Truncate(0),
		Decimals:  MarketFeedDecimals,
		UpdatedAt: info.UpdatedAt,
	}, nil
}
