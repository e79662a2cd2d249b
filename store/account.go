package store

import (
	"context"
	"sync"

	"github.com/DomeLiquid/dsc/core"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// AccountStore keeps collateral accounts in memory. Accounts are copied on the
// way in and out, so callers never share state with the store.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*core.CollateralAccount
}

var _ core.AccountStore = (*AccountStore)(nil)

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: map[uuid.UUID]*core.CollateralAccount{}}
}

func (s *AccountStore) GetAccount(ctx context.Context, userId uuid.UUID) (*core.CollateralAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[userId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return acc.Clone(), nil
}

// UpsertAccounts writes all accounts or none.
func (s *AccountStore) UpsertAccounts(ctx context.Context, accounts ...*core.CollateralAccount) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range accounts {
		s.accounts[acc.UserId] = acc.Clone()
	}
	return nil
}

func (s *AccountStore) ListAccounts(ctx context.Context) ([]*core.CollateralAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*core.CollateralAccount, 0, len(s.accounts))
	for _, acc := range s.accounts {
		accounts = append(accounts, acc.Clone())
	}
	return accounts, nil
}
