package sim

import (
	"context"
	"sync"

	"github.com/DomeLiquid/dsc/core"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrNotOwner           = errors.New("caller is not the ledger owner")
	ErrBurnExceedsBalance = errors.New("burn amount exceeds balance")
	ErrNonPositiveAmount  = errors.New("amount must be more than zero")
	ErrBurnDisabled       = errors.New("burn disabled")
)

// TransferHook runs before a transfer is applied. A non-nil error fails the transfer.
type TransferHook func(ctx context.Context, assetId string, from, to uuid.UUID, amount decimal.Decimal) error

// LiabilityLedger is an owner-gated mintable/burnable balance ledger.
type LiabilityLedger struct {
	mu sync.Mutex

	owner       uuid.UUID
	balances    map[uuid.UUID]decimal.Decimal
	allowances  map[uuid.UUID]map[uuid.UUID]decimal.Decimal
	totalSupply decimal.Decimal

	failMint bool
	failBurn bool
	hook     TransferHook
}

var _ core.LiabilityLedger = (*LiabilityLedger)(nil)

func NewLiabilityLedger(owner uuid.UUID) *LiabilityLedger {
	return &LiabilityLedger{
		owner:       owner,
		balances:    map[uuid.UUID]decimal.Decimal{},
		allowances:  map[uuid.UUID]map[uuid.UUID]decimal.Decimal{},
		totalSupply: decimal.Zero,
	}
}

func (l *LiabilityLedger) Mint(ctx context.Context, auth core.Authority, to uuid.UUID, amount decimal.Decimal) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if auth.Owner != l.owner {
		return false, ErrNotOwner
	}
	if l.failMint || !amount.IsPositive() || to == uuid.Nil {
		return false, nil
	}
	l.balances[to] = l.balances[to].Add(amount)
	l.totalSupply = l.totalSupply.Add(amount)
	return true, nil
}

func (l *LiabilityLedger) Burn(ctx context.Context, auth core.Authority, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if auth.Owner != l.owner {
		return ErrNotOwner
	}
	if l.failBurn {
		return ErrBurnDisabled
	}
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if l.balances[l.owner].LessThan(amount) {
		return ErrBurnExceedsBalance
	}
	l.balances[l.owner] = l.balances[l.owner].Sub(amount)
	l.totalSupply = l.totalSupply.Sub(amount)
	return nil
}

func (l *LiabilityLedger) TransferFrom(ctx context.Context, spender, from, to uuid.UUID, amount decimal.Decimal) (bool, error) {
	if err := l.runHook(ctx, from, to, amount); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !amount.IsPositive() {
		return false, nil
	}
	if spender != from {
		allowed := l.allowances[from][spender]
		if allowed.LessThan(amount) {
			return false, nil
		}
		l.allowances[from][spender] = allowed.Sub(amount)
	}
	return l.move(from, to, amount), nil
}

func (l *LiabilityLedger) Transfer(ctx context.Context, from, to uuid.UUID, amount decimal.Decimal) (bool, error) {
	if err := l.runHook(ctx, from, to, amount); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move(from, to, amount), nil
}

func (l *LiabilityLedger) Approve(owner, spender uuid.UUID, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.allowances[owner] == nil {
		l.allowances[owner] = map[uuid.UUID]decimal.Decimal{}
	}
	l.allowances[owner][spender] = amount
}

func (l *LiabilityLedger) BalanceOf(holder uuid.UUID) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[holder]
}

func (l *LiabilityLedger) TotalSupply() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalSupply
}

// SetFailures makes subsequent mints report failure and burns return an error.
func (l *LiabilityLedger) SetFailures(mint, burn bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failMint, l.failBurn = mint, burn
}

func (l *LiabilityLedger) SetHook(hook TransferHook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hook = hook
}

func (l *LiabilityLedger) runHook(ctx context.Context, from, to uuid.UUID, amount decimal.Decimal) error {
	l.mu.Lock()
	hook := l.hook
	l.mu.Unlock()
	if hook == nil {
		return nil
	}
	return hook(ctx, "", from, to, amount)
}

func (l *LiabilityLedger) move(from, to uuid.UUID, amount decimal.Decimal) bool {
	if !amount.IsPositive() || l.balances[from].LessThan(amount) {
		return false
	}
	l.balances[from] = l.balances[from].Sub(amount)
	l.balances[to] = l.balances[to].Add(amount)
	return true
}
