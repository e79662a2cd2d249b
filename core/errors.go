package core

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	InvalidInput
	ExternalCallFailed
	InvariantViolation
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case ExternalCallFailed:
		return "ExternalCallFailed"
	case InvariantViolation:
		return "InvariantViolation"
	default:
		return "Unknown"
	}
}

var (
	// invalid input
	ErrZeroAmount             = errors.New("amount must be more than zero")
	ErrUnknownAsset           = errors.New("collateral asset not allowed")
	ErrLengthMismatch         = errors.New("asset and price feed lists must be the same length")
	ErrDuplicateAsset         = errors.New("collateral asset registered twice")
	ErrEmptyIdentifier        = errors.New("empty identifier")
	ErrInsufficientCollateral = errors.New("collateral balance too low")
	ErrInsufficientDebt       = errors.New("minted debt too low")

	// external call failed
	ErrOracleUnavailable = errors.New("oracle price unavailable")
	ErrStalePrice        = errors.Wrap(ErrOracleUnavailable, "stale price")
	ErrTransferFailed    = errors.New("transfer failed")
	ErrMintFailed        = errors.New("mint failed")
	ErrBurnFailed        = errors.New("burn failed")

	// invariant violation
	ErrHealthFactorBroken      = errors.New("health factor broken")
	ErrHealthFactorOk          = errors.New("health factor ok")
	ErrHealthFactorNotImproved = errors.New("health factor not improved")
	ErrReentrantCall           = errors.New("reentrant call")
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrZeroAmount, InvalidInput},
	{ErrUnknownAsset, InvalidInput},
	{ErrLengthMismatch, InvalidInput},
	{ErrDuplicateAsset, InvalidInput},
	{ErrEmptyIdentifier, InvalidInput},
	{ErrInsufficientCollateral, InvalidInput},
	{ErrInsufficientDebt, InvalidInput},

	{ErrOracleUnavailable, ExternalCallFailed},
	{ErrTransferFailed, ExternalCallFailed},
	{ErrMintFailed, ExternalCallFailed},
	{ErrBurnFailed, ExternalCallFailed},

	{ErrHealthFactorBroken, InvariantViolation},
	{ErrHealthFactorOk, InvariantViolation},
	{ErrHealthFactorNotImproved, InvariantViolation},
	{ErrReentrantCall, InvariantViolation},
}

// KindOf classifies err by the engine sentinel it wraps.
func KindOf(err error) ErrorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// HealthFactorError reports the health factor that broke the minimum.
type HealthFactorError struct {
	Value decimal.Decimal
}

func (e *HealthFactorError) Error() string {
	return fmt.Sprintf("%s: %s", ErrHealthFactorBroken, e.Value)
}

func (e *HealthFactorError) Unwrap() error {
	return ErrHealthFactorBroken
}
