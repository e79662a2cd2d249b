package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		kind ErrorKind
	}{
		{ErrZeroAmount, InvalidInput},
		{errors.Wrap(ErrUnknownAsset, "asset x"), InvalidInput},
		{ErrInsufficientCollateral, InvalidInput},
		{ErrStalePrice, ExternalCallFailed},
		{errors.Wrapf(ErrTransferFailed, "pull %s", "x"), ExternalCallFailed},
		{ErrBurnFailed, ExternalCallFailed},
		{&HealthFactorError{Value: decimal.NewFromInt(1)}, InvariantViolation},
		{ErrHealthFactorOk, InvariantViolation},
		{ErrReentrantCall, InvariantViolation},
		{errors.New("boom"), KindUnknown},
		{nil, KindUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, KindOf(tt.err), "%v", tt.err)
	}
}

func TestHealthFactorError(t *testing.T) {
	err := errors.Wrap(&HealthFactorError{Value: decimal.New(5, 17)}, "user")
	assert.ErrorIs(t, err, ErrHealthFactorBroken)

	var hfErr *HealthFactorError
	assert.ErrorAs(t, err, &hfErr)
	assert.True(t, decimal.New(5, 17).Equal(hfErr.Value))
	assert.Equal(t, "InvariantViolation", KindOf(err).String())
}
