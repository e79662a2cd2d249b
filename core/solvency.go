package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// UsdValue returns the 18-decimal USD value of amount raw units of assetId.
func (e *Engine) UsdValue(ctx context.Context, assetId string, amount decimal.Decimal) (decimal.Decimal, error) {
	asset, err := e.registry.Get(assetId)
	if err != nil {
		return decimal.Zero, err
	}
	return e.usdValue(ctx, asset, amount)
}

// TokenAmountFromUsd returns how many raw units of assetId are worth usd at the current price.
func (e *Engine) TokenAmountFromUsd(ctx context.Context, assetId string, usd decimal.Decimal) (decimal.Decimal, error) {
	asset, err := e.registry.Get(assetId)
	if err != nil {
		return decimal.Zero, err
	}
	price, err := e.oracle.GetPrice(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}
	return CalcAmount(usd, price, asset.Decimals)
}

func (e *Engine) AccountCollateralValueUsd(ctx context.Context, userId uuid.UUID) (decimal.Decimal, error) {
	defer e.view(ctx)()
	acc, err := e.loadAccount(ctx, userId)
	if err != nil {
		return decimal.Zero, err
	}
	return e.collateralValueOf(ctx, acc)
}

// AccountInfo returns (minted debt, collateral value in USD).
func (e *Engine) AccountInfo(ctx context.Context, userId uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	pos, err := e.Position(ctx, userId)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return pos.TotalDebt, pos.CollateralValueUsd, nil
}

func (e *Engine) Position(ctx context.Context, userId uuid.UUID) (Position, error) {
	defer e.view(ctx)()
	acc, err := e.loadAccount(ctx, userId)
	if err != nil {
		return Position{}, err
	}
	return e.positionOf(ctx, acc)
}

func (e *Engine) HealthFactor(ctx context.Context, userId uuid.UUID) (decimal.Decimal, error) {
	pos, err := e.Position(ctx, userId)
	if err != nil {
		return decimal.Zero, err
	}
	return pos.HealthFactor, nil
}

func (e *Engine) AssertHealthy(ctx context.Context, userId uuid.UUID) error {
	defer e.view(ctx)()
	acc, err := e.loadAccount(ctx, userId)
	if err != nil {
		return err
	}
	_, err = e.assertHealthyOf(ctx, acc)
	return err
}

// MaxDebtMintable returns how much more debt userId could mint at current
// prices while keeping the health factor at or above the minimum.
func (e *Engine) MaxDebtMintable(ctx context.Context, userId uuid.UUID) (decimal.Decimal, error) {
	pos, err := e.Position(ctx, userId)
	if err != nil {
		return decimal.Zero, err
	}
	capacity := MulDiv(pos.CollateralValueUsd, liquidationThreshold, liquidationPrecision)
	if capacity.LessThanOrEqual(pos.TotalDebt) {
		return decimal.Zero, nil
	}
	return capacity.Sub(pos.TotalDebt), nil
}

func (e *Engine) usdValue(ctx context.Context, asset *CollateralAsset, amount decimal.Decimal) (decimal.Decimal, error) {
	price, err := e.oracle.GetPrice(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}
	return CalcValue(amount, price, asset.Decimals)
}

// collateralValueOf sums deposits in registration order. Assets with nothing
// deposited are skipped without an oracle read.
func (e *Engine) collateralValueOf(ctx context.Context, acc *CollateralAccount) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, assetId := range e.registry.AssetIds() {
		amount := acc.CollateralOf(assetId)
		if amount.IsZero() {
			continue
		}
		asset, err := e.registry.Get(assetId)
		if err != nil {
			return decimal.Zero, err
		}
		value, err := e.usdValue(ctx, asset, amount)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(value)
	}
	return total, nil
}

func (e *Engine) positionOf(ctx context.Context, acc *CollateralAccount) (Position, error) {
	collateralValue, err := e.collateralValueOf(ctx, acc)
	if err != nil {
		return Position{}, err
	}
	return Position{
		UserId:             acc.UserId,
		TotalDebt:          acc.MintedDebt,
		CollateralValueUsd: collateralValue,
		HealthFactor:       ComputeHealthFactor(acc.MintedDebt, collateralValue),
	}, nil
}

func (e *Engine) healthFactorOf(ctx context.Context, acc *CollateralAccount) (decimal.Decimal, error) {
	if !acc.MintedDebt.IsPositive() {
		return MAX_HEALTH_FACTOR, nil
	}
	pos, err := e.positionOf(ctx, acc)
	if err != nil {
		return decimal.Zero, err
	}
	return pos.HealthFactor, nil
}

func (e *Engine) assertHealthyOf(ctx context.Context, acc *CollateralAccount) (decimal.Decimal, error) {
	hf, err := e.healthFactorOf(ctx, acc)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "health factor of %s", acc.UserId)
	}
	if hf.LessThan(MIN_HEALTH_FACTOR) {
		return hf, &HealthFactorError{Value: hf}
	}
	return hf, nil
}
