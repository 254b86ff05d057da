package bill

import (
	"context"
	"testing"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/domain/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserStore struct {
	MockStore
}

func (m *MockUserStore) ListByEmail(ctx context.Context, email string) ([]bill.Bill, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bill.Bill), args.Error(1)
}

func TestScopeToSession(t *testing.T) {
	ctx := context.Background()

	t.Run("employee sees own bills", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("ListByEmail", mock.Anything, "a@a.fr").Return(bill.Fixtures()[:1], nil).Once()

		got, err := ScopeToSession(store, employee).List(ctx)

		require.NoError(t, err)
		assert.Len(t, got, 1)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("admin sees every bill", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("List", mock.Anything).Return(bill.Fixtures(), nil).Once()
		admin := session.Context{User: session.User{Type: session.UserTypeAdmin, Email: "admin@billed.test"}}

		got, err := ScopeToSession(store, admin).List(ctx)

		require.NoError(t, err)
		assert.Len(t, got, 4)
		store.AssertExpectations(t)
	})

	t.Run("nil store", func(t *testing.T) {
		assert.Nil(t, ScopeToSession(nil, employee))
	})
}
