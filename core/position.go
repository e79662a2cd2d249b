package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func (e *Engine) DepositCollateral(ctx context.Context, userId uuid.UUID, assetId string, amount decimal.Decimal) error {
	return e.run(ctx, ActionDeposit, userId, func(ctx context.Context, tx *accountTx) error {
		return e.depositCollateral(ctx, tx, userId, assetId, amount)
	})
}

// RedeemCollateral withdraws amount of assetId back to its owner. The withdrawal
// is only finalized if the owner stays healthy.
func (e *Engine) RedeemCollateral(ctx context.Context, userId uuid.UUID, assetId string, amount decimal.Decimal) error {
	return e.run(ctx, ActionRedeem, userId, func(ctx context.Context, tx *accountTx) error {
		acc, err := e.stageRedeem(ctx, tx, assetId, amount, userId, userId)
		if err != nil {
			return err
		}
		if _, err := e.assertHealthyOf(ctx, acc); err != nil {
			return err
		}
		return e.pushCollateral(ctx, tx, assetId, userId, amount)
	})
}

func (e *Engine) MintDsc(ctx context.Context, userId uuid.UUID, amount decimal.Decimal) error {
	return e.run(ctx, ActionMint, userId, func(ctx context.Context, tx *accountTx) error {
		return e.mintDsc(ctx, tx, userId, amount)
	})
}

func (e *Engine) BurnDsc(ctx context.Context, userId uuid.UUID, amount decimal.Decimal) error {
	return e.run(ctx, ActionBurn, userId, func(ctx context.Context, tx *accountTx) error {
		acc, err := e.burnDsc(ctx, tx, amount, userId, userId)
		if err != nil {
			return err
		}
		_, err = e.assertHealthyOf(ctx, acc)
		return err
	})
}

func (e *Engine) DepositCollateralAndMintDsc(ctx context.Context, userId uuid.UUID, assetId string, amountCollateral, amountDsc decimal.Decimal) error {
	return e.run(ctx, ActionMint, userId, func(ctx context.Context, tx *accountTx) error {
		if err := e.depositCollateral(ctx, tx, userId, assetId, amountCollateral); err != nil {
			return err
		}
		return e.mintDsc(ctx, tx, userId, amountDsc)
	})
}

func (e *Engine) RedeemCollateralForDsc(ctx context.Context, userId uuid.UUID, assetId string, amountCollateral, amountDsc decimal.Decimal) error {
	return e.run(ctx, ActionRedeem, userId, func(ctx context.Context, tx *accountTx) error {
		if _, err := e.burnDsc(ctx, tx, amountDsc, userId, userId); err != nil {
			return err
		}
		acc, err := e.stageRedeem(ctx, tx, assetId, amountCollateral, userId, userId)
		if err != nil {
			return err
		}
		if _, err := e.assertHealthyOf(ctx, acc); err != nil {
			return err
		}
		return e.pushCollateral(ctx, tx, assetId, userId, amountCollateral)
	})
}

// run executes fn as one all-or-nothing operation under the reentrancy guard.
func (e *Engine) run(ctx context.Context, action ActionType, userId uuid.UUID, fn func(ctx context.Context, tx *accountTx) error) error {
	ctx, exit, err := e.enter(ctx)
	if err != nil {
		return err
	}
	defer exit()

	tx := e.begin()
	err = fn(ctx, tx)
	if err != nil {
		err = tx.rollback(ctx, err)
	} else {
		err = tx.commit(ctx)
	}
	if err != nil {
		e.log.Warn().Err(err).Str("tx", tx.id.String()).Str("action", action.String()).Str("user", userId.String()).Msg("operation rejected")
		for _, sink := range e.sinks {
			if rs, ok := sink.(RejectionSink); ok {
				rs.HandleRejection(ctx, action, err)
			}
		}
		return err
	}
	e.log.Info().Str("tx", tx.id.String()).Str("action", action.String()).Str("user", userId.String()).Int("events", len(tx.events)).Msg("operation committed")
	return nil
}

func (e *Engine) depositCollateral(ctx context.Context, tx *accountTx, userId uuid.UUID, assetId string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrZeroAmount
	}
	if _, err := e.registry.Get(assetId); err != nil {
		return err
	}

	acc, err := tx.account(ctx, userId)
	if err != nil {
		return err
	}
	if err := acc.ChangeCollateral(assetId, amount); err != nil {
		return err
	}
	tx.markDirty(acc)
	tx.emit(ActionDeposit, userId, EventDetail{AssetId: assetId, Amount: amount, From: userId, To: userId})

	return tx.interact(ctx, "pull collateral",
		func(ctx context.Context) error {
			ok, err := e.tokens.TransferFrom(ctx, assetId, e.Id, userId, e.Id, amount)
			return callResult(ErrTransferFailed, "pull "+assetId, ok, err)
		},
		func(ctx context.Context) error {
			ok, err := e.tokens.Transfer(ctx, assetId, e.Id, userId, amount)
			return callResult(ErrTransferFailed, "refund "+assetId, ok, err)
		},
	)
}

// stageRedeem moves amount of assetId out of from's balance, in favour of to.
// The tokens are only sent by pushCollateral.
func (e *Engine) stageRedeem(ctx context.Context, tx *accountTx, assetId string, amount decimal.Decimal, from, to uuid.UUID) (*CollateralAccount, error) {
	if !amount.IsPositive() {
		return nil, ErrZeroAmount
	}
	if _, err := e.registry.Get(assetId); err != nil {
		return nil, err
	}

	acc, err := tx.account(ctx, from)
	if err != nil {
		return nil, err
	}
	if err := acc.ChangeCollateral(assetId, amount.Neg()); err != nil {
		return nil, err
	}
	tx.markDirty(acc)
	tx.emit(ActionRedeem, from, EventDetail{AssetId: assetId, Amount: amount, From: from, To: to})
	return acc, nil
}

// pushCollateral sends collateral out once the accounts are stored. It cannot be undone.
func (e *Engine) pushCollateral(ctx context.Context, tx *accountTx, assetId string, to uuid.UUID, amount decimal.Decimal) error {
	return tx.final("push collateral", func(ctx context.Context) error {
		ok, err := e.tokens.Transfer(ctx, assetId, e.Id, to, amount)
		return callResult(ErrTransferFailed, "push "+assetId, ok, err)
	})
}

// mintDsc checks health on the staged debt before anything is issued.
func (e *Engine) mintDsc(ctx context.Context, tx *accountTx, userId uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrZeroAmount
	}

	acc, err := tx.account(ctx, userId)
	if err != nil {
		return err
	}
	if err := acc.ChangeDebt(amount); err != nil {
		return err
	}
	tx.markDirty(acc)
	if _, err := e.assertHealthyOf(ctx, acc); err != nil {
		return err
	}
	tx.emit(ActionMint, userId, EventDetail{Amount: amount, To: userId})

	return tx.final("mint", func(ctx context.Context) error {
		ok, err := e.dsc.Mint(ctx, e.Authority(), userId, amount)
		return callResult(ErrMintFailed, "mint", ok, err)
	})
}

// burnDsc reduces onBehalfOf's debt, paid with tokens pulled from payer.
func (e *Engine) burnDsc(ctx context.Context, tx *accountTx, amount decimal.Decimal, onBehalfOf, payer uuid.UUID) (*CollateralAccount, error) {
	if !amount.IsPositive() {
		return nil, ErrZeroAmount
	}

	acc, err := tx.account(ctx, onBehalfOf)
	if err != nil {
		return nil, err
	}
	if err := acc.ChangeDebt(amount.Neg()); err != nil {
		return nil, err
	}
	tx.markDirty(acc)
	tx.emit(ActionBurn, onBehalfOf, EventDetail{Amount: amount, From: payer, Payer: payer})

	if err := e.settleDsc(ctx, tx, payer, amount); err != nil {
		return nil, err
	}
	return acc, nil
}

// settleDsc pulls amount of dsc from payer and burns it.
func (e *Engine) settleDsc(ctx context.Context, tx *accountTx, payer uuid.UUID, amount decimal.Decimal) error {
	err := tx.interact(ctx, "pull dsc",
		func(ctx context.Context) error {
			ok, err := e.dsc.TransferFrom(ctx, e.Id, payer, e.Id, amount)
			return callResult(ErrTransferFailed, "pull dsc", ok, err)
		},
		func(ctx context.Context) error {
			ok, err := e.dsc.Transfer(ctx, e.Id, payer, amount)
			return callResult(ErrTransferFailed, "refund dsc", ok, err)
		},
	)
	if err != nil {
		return err
	}

	return tx.interact(ctx, "burn dsc",
		func(ctx context.Context) error {
			if err := e.dsc.Burn(ctx, e.Authority(), amount); err != nil {
				return errors.Wrapf(ErrBurnFailed, "%v", err)
			}
			return nil
		},
		func(ctx context.Context) error {
			ok, err := e.dsc.Mint(ctx, e.Authority(), e.Id, amount)
			return callResult(ErrMintFailed, "re-mint burned dsc", ok, err)
		},
	)
}

func callResult(sentinel error, what string, ok bool, err error) error {
	if err != nil {
		return errors.Wrapf(sentinel, "%s: %v", what, err)
	}
	if !ok {
		return errors.Wrap(sentinel, what)
	}
	return nil
}
