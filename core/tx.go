package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type effect struct {
	name string
	run  func(ctx context.Context) error
}

// accountTx stages account changes on clones. Reversible external effects run
// through interact and register an undo. The one irreversible effect an
// operation may have is deferred with final and runs after the staged accounts
// are stored. Events reach the sinks only after everything succeeded.
type accountTx struct {
	e  *Engine
	id uuid.UUID

	snapshots map[uuid.UUID]*CollateralAccount
	accounts  map[uuid.UUID]*CollateralAccount
	dirty     []uuid.UUID
	events    []*Event
	undo      []effect
	last      *effect
}

func (e *Engine) begin() *accountTx {
	return &accountTx{
		e:         e,
		id:        uuid.Must(uuid.NewV4()),
		snapshots: map[uuid.UUID]*CollateralAccount{},
		accounts:  map[uuid.UUID]*CollateralAccount{},
	}
}

// account returns the staged copy of user's account, creating an empty one on first touch.
func (tx *accountTx) account(ctx context.Context, userId uuid.UUID) (*CollateralAccount, error) {
	if acc, ok := tx.accounts[userId]; ok {
		return acc, nil
	}
	acc, err := tx.e.loadAccount(ctx, userId)
	if err != nil {
		return nil, err
	}
	tx.snapshots[userId] = acc
	tx.accounts[userId] = acc.Clone()
	return tx.accounts[userId], nil
}

func (tx *accountTx) markDirty(acc *CollateralAccount) {
	for _, id := range tx.dirty {
		if id == acc.UserId {
			return
		}
	}
	tx.dirty = append(tx.dirty, acc.UserId)
}

func (tx *accountTx) emit(action ActionType, userId uuid.UUID, extra EventDetail) {
	tx.events = append(tx.events, NewEvent(tx.e.clk, tx.id, len(tx.events), action, userId, extra))
}

// interact runs a reversible external effect and keeps its undo for rollback.
func (tx *accountTx) interact(ctx context.Context, name string, do, undo func(ctx context.Context) error) error {
	if err := do(ctx); err != nil {
		return err
	}
	if undo != nil {
		tx.undo = append(tx.undo, effect{name: name, run: undo})
	}
	return nil
}

// final defers an effect that cannot be undone until the staged accounts are stored.
func (tx *accountTx) final(name string, do func(ctx context.Context) error) error {
	if tx.last != nil {
		return errors.Errorf("%s: irreversible effect %s already pending", name, tx.last.name)
	}
	tx.last = &effect{name: name, run: do}
	return nil
}

// rollback undoes completed effects in reverse order and returns cause.
// Undo runs even if ctx is already cancelled.
func (tx *accountTx) rollback(ctx context.Context, cause error) error {
	ctx = context.WithoutCancel(ctx)
	for i := len(tx.undo) - 1; i >= 0; i-- {
		c := tx.undo[i]
		if err := c.run(ctx); err != nil {
			tx.e.log.Error().Err(err).Str("tx", tx.id.String()).Str("effect", c.name).Msg("compensation failed")
			cause = errors.Wrapf(cause, "compensating %s: %v", c.name, err)
		}
	}
	tx.undo = nil
	tx.last = nil
	tx.snapshots = map[uuid.UUID]*CollateralAccount{}
	tx.accounts = map[uuid.UUID]*CollateralAccount{}
	tx.dirty = nil
	tx.events = nil
	return cause
}

func (tx *accountTx) commit(ctx context.Context) error {
	if err := tx.store(ctx, tx.accounts, true); err != nil {
		return tx.rollback(ctx, errors.Wrap(err, "store accounts"))
	}

	if tx.last != nil {
		if err := tx.last.run(ctx); err != nil {
			if restoreErr := tx.store(context.WithoutCancel(ctx), tx.snapshots, false); restoreErr != nil {
				tx.e.log.Error().Err(restoreErr).Str("tx", tx.id.String()).Str("effect", tx.last.name).Msg("restore accounts failed")
				err = errors.Wrapf(err, "restoring accounts: %v", restoreErr)
			}
			return tx.rollback(ctx, err)
		}
	}

	for _, evt := range tx.events {
		for _, sink := range tx.e.sinks {
			sink.HandleEvent(ctx, evt)
		}
	}
	return nil
}

// store writes the dirty accounts taken from set.
func (tx *accountTx) store(ctx context.Context, set map[uuid.UUID]*CollateralAccount, touch bool) error {
	if len(tx.dirty) == 0 {
		return nil
	}
	accounts := make([]*CollateralAccount, 0, len(tx.dirty))
	for _, id := range tx.dirty {
		acc := set[id]
		if touch {
			acc.Touch(tx.e.clk)
		}
		accounts = append(accounts, acc)
	}
	return tx.e.accounts.UpsertAccounts(ctx, accounts...)
}

func (e *Engine) loadAccount(ctx context.Context, userId uuid.UUID) (*CollateralAccount, error) {
	acc, err := e.accounts.GetAccount(ctx, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewCollateralAccount(e.clk, userId), nil
		}
		return nil, errors.Wrapf(err, "load account %s", userId)
	}
	return acc, nil
}
