package sim

import (
	"context"
	"net/http"
	"sync"

	"github.com/DomeLiquid/dsc/core"
	"github.com/facebookgo/clock"
	"github.com/shopspring/decimal"
)

// MarketBoard is a settable market data source keyed by coin id. It answers
// unknown coins the way the market API does, with a 404.
type MarketBoard struct {
	mu     sync.Mutex
	clk    clock.Clock
	quotes map[string]*core.MarketAssetInfo
}

var _ core.MarketSource = (*MarketBoard)(nil)

func NewMarketBoard(clk clock.Clock) *MarketBoard {
	return &MarketBoard{
		clk:    clk,
		quotes: map[string]*core.MarketAssetInfo{},
	}
}

// SetQuote records a USD quote for coinId, stamped with the current clock time.
func (m *MarketBoard) SetQuote(coinId string, usd decimal.Decimal, assetIds ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[coinId] = &core.MarketAssetInfo{
		CoinID:       coinId,
		CurrentPrice: usd,
		AssetIDS:     assetIds,
		UpdatedAt:    m.clk.Now(),
	}
}

func (m *MarketBoard) GetMarketAsset(ctx context.Context, coinId string) (*core.MarketAssetInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.quotes[coinId]
	if !ok {
		return nil, &core.MarketAPIError{
			StatusCode:  http.StatusNotFound,
			Code:        http.StatusNotFound,
			Description: "coin " + coinId + " not found",
		}
	}
	cp := *info
	return &cp, nil
}
