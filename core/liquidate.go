package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type LiquidateResult struct {
	Liquidator uuid.UUID `json:"liquidator"`
	Liquidatee uuid.UUID `json:"liquidatee"`
	AssetId    string    `json:"assetId"`

	DebtCovered  decimal.Decimal     `json:"debtCovered"`
	SeizedBase   decimal.Decimal     `json:"seizedBase"`
	Bonus        decimal.Decimal     `json:"bonus"`
	TotalSeized  decimal.Decimal     `json:"totalSeized"`
	PreBalances  LiquidationBalances `json:"preBalances"`
	PostBalances LiquidationBalances `json:"postBalances"`

	LiquidateePreHealth  decimal.Decimal `json:"liquidateePreHealth"`
	LiquidateePostHealth decimal.Decimal `json:"liquidateePostHealth"`
	LiquidatorHealth     decimal.Decimal `json:"liquidatorHealth"`
}

type LiquidationBalances struct {
	LiquidateeCollateral decimal.Decimal `json:"liquidateeCollateral"`
	LiquidateeDebt       decimal.Decimal `json:"liquidateeDebt"`
}

// Liquidate covers debtToCover of userId's debt with liquidator's tokens and
// pays liquidator the equivalent amount of assetId plus a 10% bonus, taken
// from userId's collateral. userId must be below the minimum health factor and
// must end strictly healthier than before; liquidator must stay healthy.
//
// If userId's balance of assetId cannot cover principal plus bonus the call
// fails with ErrInsufficientCollateral; nothing is partially seized.
func (e *Engine) Liquidate(ctx context.Context, liquidator uuid.UUID, assetId string, userId uuid.UUID, debtToCover decimal.Decimal) (*LiquidateResult, error) {
	var result *LiquidateResult
	err := e.run(ctx, ActionLiquidate, liquidator, func(ctx context.Context, tx *accountTx) error {
		r, err := e.liquidate(ctx, tx, liquidator, assetId, userId, debtToCover)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) liquidate(ctx context.Context, tx *accountTx, liquidator uuid.UUID, assetId string, userId uuid.UUID, debtToCover decimal.Decimal) (*LiquidateResult, error) {
	if !debtToCover.IsPositive() {
		return nil, ErrZeroAmount
	}
	asset, err := e.registry.Get(assetId)
	if err != nil {
		return nil, err
	}

	victim, err := tx.account(ctx, userId)
	if err != nil {
		return nil, err
	}
	startingHealth, err := e.healthFactorOf(ctx, victim)
	if err != nil {
		return nil, err
	}
	if startingHealth.GreaterThanOrEqual(MIN_HEALTH_FACTOR) {
		return nil, errors.Wrapf(ErrHealthFactorOk, "user %s at %s", userId, startingHealth)
	}

	price, err := e.oracle.GetPrice(ctx, asset)
	if err != nil {
		return nil, err
	}
	seizedBase, err := CalcAmount(debtToCover, price, asset.Decimals)
	if err != nil {
		return nil, err
	}
	bonus := CalcLiquidationBonus(seizedBase)
	totalSeized := seizedBase.Add(bonus)

	result := &LiquidateResult{
		Liquidator:  liquidator,
		Liquidatee:  userId,
		AssetId:     assetId,
		DebtCovered: debtToCover,
		SeizedBase:  seizedBase,
		Bonus:       bonus,
		TotalSeized: totalSeized,
		PreBalances: LiquidationBalances{
			LiquidateeCollateral: victim.CollateralOf(assetId),
			LiquidateeDebt:       victim.MintedDebt,
		},
		LiquidateePreHealth: startingHealth,
	}

	if _, err := e.stageRedeem(ctx, tx, assetId, totalSeized, userId, liquidator); err != nil {
		return nil, err
	}
	if err := victim.ChangeDebt(debtToCover.Neg()); err != nil {
		return nil, err
	}
	tx.emit(ActionBurn, userId, EventDetail{Amount: debtToCover, From: liquidator, Payer: liquidator})

	endingHealth, err := e.healthFactorOf(ctx, victim)
	if err != nil {
		return nil, err
	}
	if endingHealth.LessThanOrEqual(startingHealth) {
		return nil, errors.Wrapf(ErrHealthFactorNotImproved, "user %s: %s -> %s", userId, startingHealth, endingHealth)
	}

	liquidatorAcc, err := tx.account(ctx, liquidator)
	if err != nil {
		return nil, err
	}
	liquidatorHealth, err := e.assertHealthyOf(ctx, liquidatorAcc)
	if err != nil {
		return nil, errors.Wrapf(err, "liquidator %s", liquidator)
	}

	result.PostBalances = LiquidationBalances{
		LiquidateeCollateral: victim.CollateralOf(assetId),
		LiquidateeDebt:       victim.MintedDebt,
	}
	result.LiquidateePostHealth = endingHealth
	result.LiquidatorHealth = liquidatorHealth

	tx.emit(ActionLiquidate, userId, EventDetail{
		AssetId:      assetId,
		Amount:       totalSeized,
		From:         userId,
		To:           liquidator,
		Liquidator:   liquidator,
		DebtCovered:  &debtToCover,
		Bonus:        &bonus,
		HealthBefore: &startingHealth,
		HealthAfter:  &endingHealth,
	})

	if err := e.settleDsc(ctx, tx, liquidator, debtToCover); err != nil {
		return nil, err
	}
	if err := e.pushCollateral(ctx, tx, assetId, liquidator, totalSeized); err != nil {
		return nil, err
	}
	return result, nil
}
