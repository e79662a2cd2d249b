package core

import (
	"time"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	LIQUIDATION_THRESHOLD = 50
	LIQUIDATION_BONUS     = 10
	LIQUIDATION_PRECISION = 100

	USD_DECIMALS = 18

	DEFAULT_ORACLE_TIMEOUT = 3 * time.Hour
)

var (
	ZERO = decimal.Zero
	ONE  = decimal.NewFromInt(1)

	// PRECISION is the 18-decimal fixed point scale used for USD values and health factors.
	PRECISION = decimal.New(1, USD_DECIMALS)

	MIN_HEALTH_FACTOR = PRECISION

	// MAX_HEALTH_FACTOR stands in for an infinite health factor (no debt).
	MAX_HEALTH_FACTOR = decimal.NewFromBigInt(new(uint256.Int).SetAllOne().ToBig(), 0)

	liquidationThreshold = decimal.NewFromInt(LIQUIDATION_THRESHOLD)
	liquidationBonus     = decimal.NewFromInt(LIQUIDATION_BONUS)
	liquidationPrecision = decimal.NewFromInt(LIQUIDATION_PRECISION)
)

type LiquidationParams struct {
	Threshold       int64           `json:"threshold"`
	Bonus           int64           `json:"bonus"`
	Precision       int64           `json:"precision"`
	MinHealthFactor decimal.Decimal `json:"minHealthFactor"`
}

func GetLiquidationParams() LiquidationParams {
	return LiquidationParams{
		Threshold:       LIQUIDATION_THRESHOLD,
		Bonus:           LIQUIDATION_BONUS,
		Precision:       LIQUIDATION_PRECISION,
		MinHealthFactor: MIN_HEALTH_FACTOR,
	}
}
