package store

import (
	"context"
	"errors"

	"auction-engine/internal/domain/account"
	"auction-engine/internal/domain/shared"
)

// AccountRepository implements the account repository interface on top of
// the accounts container
type AccountRepository struct {
	store *Store[*account.Account]
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(store *Store[*account.Account]) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) Create(ctx context.Context, build func(id int) *account.Account) (*account.Account, error) {
	return r.store.Create(build)
}

func (r *AccountRepository) GetByID(ctx context.Context, id int) (*account.Account, error) {
	a, err := r.store.Get(id)
	if err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			return nil, shared.ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int) error {
	if err := r.store.Delete(id); err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			return shared.ErrAccountNotFound
		}
		return err
	}
	return nil
}
