package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

func (e *Engine) CollateralBalance(ctx context.Context, userId uuid.UUID, assetId string) (decimal.Decimal, error) {
	if _, err := e.registry.Get(assetId); err != nil {
		return decimal.Zero, err
	}
	defer e.view(ctx)()
	acc, err := e.loadAccount(ctx, userId)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.CollateralOf(assetId), nil
}

func (e *Engine) MintedDebt(ctx context.Context, userId uuid.UUID) (decimal.Decimal, error) {
	defer e.view(ctx)()
	acc, err := e.loadAccount(ctx, userId)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.MintedDebt, nil
}

func (e *Engine) RegisteredAssets() []string {
	return e.registry.AssetIds()
}

func (e *Engine) CollateralPriceFeed(assetId string) (string, error) {
	asset, err := e.registry.Get(assetId)
	if err != nil {
		return "", err
	}
	return asset.PriceFeedId, nil
}
