package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func e18(v int64) decimal.Decimal {
	return decimal.New(v, USD_DECIMALS)
}

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		a, b, c  decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "exact",
			a:        decimal.NewFromInt(100),
			b:        decimal.NewFromInt(50),
			c:        decimal.NewFromInt(100),
			expected: decimal.NewFromInt(50),
		},
		{
			name:     "truncates",
			a:        decimal.NewFromInt(7),
			b:        decimal.NewFromInt(3),
			c:        decimal.NewFromInt(2),
			expected: decimal.NewFromInt(10),
		},
		{
			name:     "below one",
			a:        decimal.NewFromInt(1),
			b:        decimal.NewFromInt(1),
			c:        decimal.NewFromInt(3),
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(MulDiv(tt.a, tt.b, tt.c)), "got %s", MulDiv(tt.a, tt.b, tt.c))
		})
	}
}

func TestCalcValue(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		price    decimal.Decimal
		decimals int32
		expected decimal.Decimal
		wantErr  bool
	}{
		{
			name:     "18 decimals",
			amount:   e18(1),
			price:    e18(2000),
			decimals: 18,
			expected: e18(2000),
		},
		{
			name:     "8 decimals",
			amount:   decimal.New(15, 7),
			price:    e18(2000),
			decimals: 8,
			expected: e18(3000),
		},
		{
			name:     "zero amount",
			amount:   decimal.Zero,
			price:    e18(2000),
			decimals: 18,
			expected: decimal.Zero,
		},
		{
			name:     "zero price",
			amount:   e18(1),
			price:    decimal.Zero,
			decimals: 18,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := CalcValue(tt.amount, tt.price, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tt.expected.Equal(value), "got %s", value)
		})
	}
}

func TestCalcAmount(t *testing.T) {
	amount, err := CalcAmount(e18(100), e18(2000), 18)
	assert.NoError(t, err)
	assert.True(t, decimal.New(5, 16).Equal(amount), "got %s", amount)

	amount, err = CalcAmount(e18(20), e18(8), 18)
	assert.NoError(t, err)
	assert.True(t, decimal.New(25, 17).Equal(amount), "got %s", amount)

	_, err = CalcAmount(e18(20), decimal.Zero, 18)
	assert.Error(t, err)
}

func TestComputeHealthFactor(t *testing.T) {
	tests := []struct {
		name       string
		debt       decimal.Decimal
		collateral decimal.Decimal
		expected   decimal.Decimal
	}{
		{
			name:       "no debt",
			debt:       decimal.Zero,
			collateral: e18(1000),
			expected:   MAX_HEALTH_FACTOR,
		},
		{
			name:       "no debt no collateral",
			debt:       decimal.Zero,
			collateral: decimal.Zero,
			expected:   MAX_HEALTH_FACTOR,
		},
		{
			name:       "equal debt and collateral",
			debt:       decimal.NewFromInt(100),
			collateral: decimal.NewFromInt(100),
			expected:   decimal.New(5, 17),
		},
		{
			name:       "at minimum",
			debt:       e18(100),
			collateral: e18(200),
			expected:   MIN_HEALTH_FACTOR,
		},
		{
			name:       "no collateral",
			debt:       e18(1),
			collateral: decimal.Zero,
			expected:   decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hf := ComputeHealthFactor(tt.debt, tt.collateral)
			assert.True(t, tt.expected.Equal(hf), "got %s", hf)
		})
	}
}

func TestCalcLiquidationBonus(t *testing.T) {
	assert.True(t, decimal.New(25, 16).Equal(CalcLiquidationBonus(decimal.New(25, 17))))
	assert.True(t, decimal.Zero.Equal(CalcLiquidationBonus(decimal.NewFromInt(9))))
}

func TestScalePrice(t *testing.T) {
	assert.True(t, e18(2000).Equal(ScalePrice(decimal.New(2000, 8), 8)))
	assert.True(t, e18(2000).Equal(ScalePrice(e18(2000), 18)))
	assert.True(t, decimal.NewFromInt(12).Equal(ScalePrice(decimal.NewFromInt(1299), 20)))
}

func TestMaxHealthFactor(t *testing.T) {
	assert.Equal(t, 256, MAX_HEALTH_FACTOR.BigInt().BitLen())
	assert.True(t, MAX_HEALTH_FACTOR.GreaterThan(MIN_HEALTH_FACTOR))
}

func TestGetLiquidationParams(t *testing.T) {
	params := GetLiquidationParams()
	assert.Equal(t, int64(50), params.Threshold)
	assert.Equal(t, int64(10), params.Bonus)
	assert.Equal(t, int64(100), params.Precision)
	assert.True(t, MIN_HEALTH_FACTOR.Equal(params.MinHealthFactor))
}
