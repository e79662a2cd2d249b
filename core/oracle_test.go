package core

import (
	"context"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubFeed struct {
	data *PriceData
	err  error
}

func (f stubFeed) LatestPrice(ctx context.Context, feedId string) (*PriceData, error) {
	return f.data, f.err
}

func TestOracleAdapter_GetPrice(t *testing.T) {
	clk := clock.NewMock()
	clk.Add(24 * time.Hour)
	asset := &CollateralAsset{AssetId: ethAssetId, Decimals: 18, PriceFeedId: "eth-usd"}

	tests := []struct {
		name     string
		feed     stubFeed
		expected decimal.Decimal
		wantErr  error
	}{
		{
			name:     "fresh",
			feed:     stubFeed{data: &PriceData{Price: decimal.New(2000, 8), Decimals: 8, UpdatedAt: clk.Now().Add(-time.Hour)}},
			expected: e18(2000),
		},
		{
			name:     "at timeout",
			feed:     stubFeed{data: &PriceData{Price: decimal.New(2000, 8), Decimals: 8, UpdatedAt: clk.Now().Add(-DEFAULT_ORACLE_TIMEOUT)}},
			expected: e18(2000),
		},
		{
			name:    "stale",
			feed:    stubFeed{data: &PriceData{Price: decimal.New(2000, 8), Decimals: 8, UpdatedAt: clk.Now().Add(-DEFAULT_ORACLE_TIMEOUT - time.Second)}},
			wantErr: ErrStalePrice,
		},
		{
			name:    "never updated",
			feed:    stubFeed{data: &PriceData{Price: decimal.New(2000, 8), Decimals: 8}},
			wantErr: ErrStalePrice,
		},
		{
			name:    "zero price",
			feed:    stubFeed{data: &PriceData{Price: decimal.Zero, Decimals: 8, UpdatedAt: clk.Now()}},
			wantErr: ErrOracleUnavailable,
		},
		{
			name:    "negative price",
			feed:    stubFeed{data: &PriceData{Price: decimal.NewFromInt(-1), Decimals: 8, UpdatedAt: clk.Now()}},
			wantErr: ErrOracleUnavailable,
		},
		{
			name:    "feed error",
			feed:    stubFeed{err: errors.New("connection refused")},
			wantErr: ErrOracleUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOracleAdapter(tt.feed, clk, 0)
			price, err := o.GetPrice(context.Background(), asset)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, ExternalCallFailed, KindOf(err))
				return
			}
			assert.NoError(t, err)
			assert.True(t, tt.expected.Equal(price), "got %s", price)
		})
	}
}

func TestOracleAdapter_Timeout(t *testing.T) {
	assert.Equal(t, DEFAULT_ORACLE_TIMEOUT, NewOracleAdapter(stubFeed{}, clock.NewMock(), 0).Timeout())
	assert.Equal(t, time.Minute, NewOracleAdapter(stubFeed{}, clock.NewMock(), time.Minute).Timeout())
}
