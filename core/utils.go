package core

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MulDiv returns a*b/c truncated toward zero. Operands are expected to be integral.
func MulDiv(a, b, c decimal.Decimal) decimal.Decimal {
	q, _ := a.Mul(b).QuoRem(c, 0)
	return q
}

// Scale returns 10^decimals as an integral decimal.
func Scale(decimals int32) decimal.Decimal {
	return decimal.New(1, decimals)
}

// CalcValue converts a raw token amount into 18-decimal USD given an 18-decimal price.
func CalcValue(amount decimal.Decimal, price decimal.Decimal, tokenDecimals int32) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, nil
	}
	if !price.IsPositive() {
		return decimal.Zero, errors.Wrapf(ErrOracleUnavailable, "price %s", price)
	}
	return MulDiv(price, amount, Scale(tokenDecimals)), nil
}

// CalcAmount is the inverse of CalcValue: the raw token amount worth usd at price.
func CalcAmount(usd decimal.Decimal, price decimal.Decimal, tokenDecimals int32) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, errors.Wrapf(ErrOracleUnavailable, "price %s", price)
	}
	return MulDiv(usd, Scale(tokenDecimals), price), nil
}

// ComputeHealthFactor is the pure health factor formula, usable for what-if analysis.
// Truncation makes the result pessimistic for the depositor at the threshold.
func ComputeHealthFactor(totalDebt, collateralValueUsd decimal.Decimal) decimal.Decimal {
	if !totalDebt.IsPositive() {
		return MAX_HEALTH_FACTOR
	}
	adjusted := MulDiv(collateralValueUsd, liquidationThreshold, liquidationPrecision)
	return MulDiv(adjusted, PRECISION, totalDebt)
}

// CalcLiquidationBonus returns the bonus owed on top of a seized base amount.
func CalcLiquidationBonus(seizedBase decimal.Decimal) decimal.Decimal {
	return MulDiv(seizedBase, liquidationBonus, liquidationPrecision)
}
