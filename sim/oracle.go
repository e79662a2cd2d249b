package sim

import (
	"context"
	"sync"

	"github.com/DomeLiquid/dsc/core"
	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrUnknownFeed = errors.New("unknown price feed")

// PriceFeed is a settable price source. Prices are stamped with the clock time
// at which they are set.
type PriceFeed struct {
	mu     sync.Mutex
	clk    clock.Clock
	prices map[string]core.PriceData
}

var _ core.PriceFeed = (*PriceFeed)(nil)

func NewPriceFeed(clk clock.Clock) *PriceFeed {
	return &PriceFeed{
		clk:    clk,
		prices: map[string]core.PriceData{},
	}
}

func (p *PriceFeed) SetPrice(feedId string, price decimal.Decimal, decimals int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prices[feedId] = core.PriceData{
		Price:     price,
		Decimals:  decimals,
		UpdatedAt: p.clk.Now(),
	}
}

func (p *PriceFeed) LatestPrice(ctx context.Context, feedId string) (*core.PriceData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.prices[feedId]
	if !ok {
		return nil, errors.Wrap(ErrUnknownFeed, feedId)
	}
	return &data, nil
}
