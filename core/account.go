package core

import (
	"context"

	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type (
	// AccountStore returns gorm.ErrRecordNotFound from GetAccount for unknown users.
	AccountStore interface {
		GetAccount(ctx context.Context, userId uuid.UUID) (*CollateralAccount, error)
		UpsertAccounts(ctx context.Context, accounts ...*CollateralAccount) error
	}

	CollateralAccount struct {
		UserId     uuid.UUID                  `json:"userId"`
		Collateral map[string]decimal.Decimal `json:"collateral"`
		MintedDebt decimal.Decimal            `json:"mintedDebt"`

		CreatedAt int64 `json:"createdAt"`
		UpdatedAt int64 `json:"updatedAt"`
	}
)

func NewCollateralAccount(clk clock.Clock, userId uuid.UUID) *CollateralAccount {
	return &CollateralAccount{
		UserId:     userId,
		Collateral: map[string]decimal.Decimal{},
		MintedDebt: decimal.Zero,
		CreatedAt:  clk.Now().Unix(),
		UpdatedAt:  clk.Now().Unix(),
	}
}

func (a *CollateralAccount) Clone() *CollateralAccount {
	collateral := make(map[string]decimal.Decimal, len(a.Collateral))
	for k, v := range a.Collateral {
		collateral[k] = v
	}
	return &CollateralAccount{
		UserId:     a.UserId,
		Collateral: collateral,
		MintedDebt: a.MintedDebt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (a *CollateralAccount) CollateralOf(assetId string) decimal.Decimal {
	if a.Collateral == nil {
		return decimal.Zero
	}
	return a.Collateral[assetId]
}

// ChangeCollateral applies delta to the deposited amount of assetId.
func (a *CollateralAccount) ChangeCollateral(assetId string, delta decimal.Decimal) error {
	next := a.CollateralOf(assetId).Add(delta)
	if next.IsNegative() {
		return errors.Wrapf(ErrInsufficientCollateral, "asset %s: have %s, need %s", assetId, a.CollateralOf(assetId), delta.Neg())
	}
	if a.Collateral == nil {
		a.Collateral = map[string]decimal.Decimal{}
	}
	a.Collateral[assetId] = next
	return nil
}

func (a *CollateralAccount) ChangeDebt(delta decimal.Decimal) error {
	next := a.MintedDebt.Add(delta)
	if next.IsNegative() {
		return errors.Wrapf(ErrInsufficientDebt, "have %s, need %s", a.MintedDebt, delta.Neg())
	}
	a.MintedDebt = next
	return nil
}

func (a *CollateralAccount) Touch(clk clock.Clock) {
	a.UpdatedAt = clk.Now().Unix()
}

// Position is the derived (debt, collateral value) pair of an account.
type Position struct {
	UserId             uuid.UUID       `json:"userId"`
	TotalDebt          decimal.Decimal `json:"totalDebt"`
	CollateralValueUsd decimal.Decimal `json:"collateralValueUsd"`
	HealthFactor       decimal.Decimal `json:"healthFactor"`
}

func (p Position) Liquidatable() bool {
	return p.HealthFactor.LessThan(MIN_HEALTH_FACTOR)
}
