package persistence

import (
	"context"
	"sync"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/domain/shared"
)

// MemoryBillStore keeps bills in memory in insertion order.
// It is used for development and tests.
type MemoryBillStore struct {
	mu    sync.RWMutex
	bills []bill.Bill
	err   error
}

// NewMemoryBillStore creates a store holding a copy of bills
func NewMemoryBillStore(bills ...bill.Bill) *MemoryBillStore {
	s := &MemoryBillStore{}
	s.bills = append(s.bills, bills...)
	return s
}

// NewFixtureBillStore creates a store holding the reference fixtures
func NewFixtureBillStore() *MemoryBillStore {
	return NewMemoryBillStore(bill.Fixtures()...)
}

// List returns a copy of every stored bill
func (s *MemoryBillStore) List(ctx context.Context) ([]bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	out := make([]bill.Bill, len(s.bills))
	copy(out, s.bills)
	return out, nil
}

// ListByEmail returns a copy of the bills of one employee
func (s *MemoryBillStore) ListByEmail(ctx context.Context, email string) ([]bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	out := make([]bill.Bill, 0)
	for _, b := range s.bills {
		if b.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
}

// Save adds a bill or replaces the one with the same ID in place
func (s *MemoryBillStore) Save(_ context.Context, b bill.Bill) error {
	if b.ID == "" {
		return shared.NewDomainError("INVALID_BILL", "Bill ID cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bills {
		if s.bills[i].ID == b.ID {
			s.bills[i] = b
			return nil
		}
	}
	s.bills = append(s.bills, b)
	return nil
}

// FailWith makes every following listing return err; nil restores normal behaviour
func (s *MemoryBillStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemoryBillStore) check(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	return ctx.Err()
}
