package bill

import (
	"context"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/domain/session"
)

// UserStore is a Store that can also list the bills of a single user
type UserStore interface {
	Store
	ListByEmail(ctx context.Context, email string) ([]bill.Bill, error)
}

// ScopeToSession restricts store to the bills an employee may see.
// Admins see every bill. A nil store stays nil.
func ScopeToSession(store UserStore, s session.Context) Store {
	if store == nil {
		return nil
	}
	if !s.IsEmployee() {
		return store
	}
	email := s.User.Email
	return StoreFunc(func(ctx context.Context) ([]bill.Bill, error) {
		return store.ListByEmail(ctx, email)
	})
}
