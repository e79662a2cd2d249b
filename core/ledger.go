package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

type (
	// Authority is the credential a liability ledger checks before minting or burning.
	Authority struct {
		Owner uuid.UUID `json:"owner"`
	}

	// LiabilityLedger is the mintable/burnable dollar token. Only the holder of the
	// owner credential may Mint or Burn; Burn destroys tokens held by the owner.
	//
	// The engine calls these methods while holding its lock. An implementation
	// that calls back into the engine must pass on the ctx it was given: the
	// engine then rejects mutations with ErrReentrantCall and serves reads from
	// the committed state. A callback made with a fresh context waits on the
	// engine lock and never returns.
	LiabilityLedger interface {
		Mint(ctx context.Context, auth Authority, to uuid.UUID, amount decimal.Decimal) (bool, error)
		Burn(ctx context.Context, auth Authority, amount decimal.Decimal) error
		TransferFrom(ctx context.Context, spender, from, to uuid.UUID, amount decimal.Decimal) (bool, error)
		Transfer(ctx context.Context, from, to uuid.UUID, amount decimal.Decimal) (bool, error)
	}

	// CollateralTokens moves collateral assets between holders. Callbacks into
	// the engine follow the same ctx rule as LiabilityLedger.
	CollateralTokens interface {
		TransferFrom(ctx context.Context, assetId string, spender, from, to uuid.UUID, amount decimal.Decimal) (bool, error)
		Transfer(ctx context.Context, assetId string, from, to uuid.UUID, amount decimal.Decimal) (bool, error)
	}
)
