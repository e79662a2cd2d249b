package sim

import (
	"context"
	"sync"

	"github.com/DomeLiquid/dsc/core"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// TokenLedger holds balances and allowances for any number of collateral assets.
type TokenLedger struct {
	mu sync.Mutex

	balances   map[string]map[uuid.UUID]decimal.Decimal
	allowances map[string]map[uuid.UUID]map[uuid.UUID]decimal.Decimal
	failing    map[string]bool
	hook       TransferHook
}

var _ core.CollateralTokens = (*TokenLedger)(nil)

func NewTokenLedger() *TokenLedger {
	return &TokenLedger{
		balances:   map[string]map[uuid.UUID]decimal.Decimal{},
		allowances: map[string]map[uuid.UUID]map[uuid.UUID]decimal.Decimal{},
		failing:    map[string]bool{},
	}
}

func (t *TokenLedger) TransferFrom(ctx context.Context, assetId string, spender, from, to uuid.UUID, amount decimal.Decimal) (bool, error) {
	if err := t.runHook(ctx, assetId, from, to, amount); err != nil {
		return false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.failing[assetId] || !amount.IsPositive() {
		return false, nil
	}
	if spender != from {
		allowed := t.allowances[assetId][from][spender]
		if allowed.LessThan(amount) {
			return false, nil
		}
		t.allowances[assetId][from][spender] = allowed.Sub(amount)
	}
	return t.move(assetId, from, to, amount), nil
}

func (t *TokenLedger) Transfer(ctx context.Context, assetId string, from, to uuid.UUID, amount decimal.Decimal) (bool, error) {
	if err := t.runHook(ctx, assetId, from, to, amount); err != nil {
		return false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.failing[assetId] {
		return false, nil
	}
	return t.move(assetId, from, to, amount), nil
}

// Faucet credits amount of assetId to holder out of thin air.
func (t *TokenLedger) Faucet(assetId string, holder uuid.UUID, amount decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balances[assetId] == nil {
		t.balances[assetId] = map[uuid.UUID]decimal.Decimal{}
	}
	t.balances[assetId][holder] = t.balances[assetId][holder].Add(amount)
}

func (t *TokenLedger) Approve(assetId string, owner, spender uuid.UUID, amount decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.allowances[assetId] == nil {
		t.allowances[assetId] = map[uuid.UUID]map[uuid.UUID]decimal.Decimal{}
	}
	if t.allowances[assetId][owner] == nil {
		t.allowances[assetId][owner] = map[uuid.UUID]decimal.Decimal{}
	}
	t.allowances[assetId][owner][spender] = amount
}

func (t *TokenLedger) BalanceOf(assetId string, holder uuid.UUID) decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[assetId][holder]
}

// SetFailing makes every transfer of assetId report failure.
func (t *TokenLedger) SetFailing(assetId string, failing bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failing[assetId] = failing
}

func (t *TokenLedger) SetHook(hook TransferHook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hook = hook
}

func (t *TokenLedger) runHook(ctx context.Context, assetId string, from, to uuid.UUID, amount decimal.Decimal) error {
	t.mu.Lock()
	hook := t.hook
	t.mu.Unlock()
	if hook == nil {
		return nil
	}
	return hook(ctx, assetId, from, to, amount)
}

func (t *TokenLedger) move(assetId string, from, to uuid.UUID, amount decimal.Decimal) bool {
	if !amount.IsPositive() || t.balances[assetId][from].LessThan(amount) {
		return false
	}
	t.balances[assetId][from] = t.balances[assetId][from].Sub(amount)
	t.balances[assetId][to] = t.balances[assetId][to].Add(amount)
	return true
}
