package account

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockIAccountWriter is a mock type for the IAccountWriter type
type MockIAccountWriter struct {
	mock.Mock
}

var _ IAccountWriter = (*MockIAccountWriter)(nil)

// NewMockIAccountWriter creates a new instance of MockIAccountWriter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockIAccountWriter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIAccountWriter {
	m := &MockIAccountWriter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func accountResult(args mock.Arguments) (*Account, error) {
	acct, _ := args.Get(0).(*Account)
	return acct, args.Error(1)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *MockIAccountWriter) FindByID(ctx context.Context, id int64) (*Account, error) {
	return accountResult(_m.Called(ctx, id))
}

// FindByNumber provides a mock function with given fields: ctx, number
func (_m *MockIAccountWriter) FindByNumber(ctx context.Context, number string) (*Account, error) {
	return accountResult(_m.Called(ctx, number))
}

// List provides a mock function with given fields: ctx, filter
func (_m *MockIAccountWriter) List(ctx context.Context, filter *AccountFilter) ([]*Account, error) {
	ret := _m.Called(ctx, filter)
	rows, _ := ret.Get(0).([]*Account)
	return rows, ret.Error(1)
}

// FindByIDForUpdate provides a mock function with given fields: ctx, id
func (_m *MockIAccountWriter) FindByIDForUpdate(ctx context.Context, id int64) (*Account, error) {
	return accountResult(_m.Called(ctx, id))
}

// NumberExists provides a mock function with given fields: ctx, number
func (_m *MockIAccountWriter) NumberExists(ctx context.Context, number string) (bool, error) {
	ret := _m.Called(ctx, number)
	return ret.Bool(0), ret.Error(1)
}

// Insert provides a mock function with given fields: ctx, create
func (_m *MockIAccountWriter) Insert(ctx context.Context, create *AccountCreate) (*Account, error) {
	return accountResult(_m.Called(ctx, create))
}

// AdjustBalance provides a mock function with given fields: ctx, id, delta
func (_m *MockIAccountWriter) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (*Account, error) {
	return accountResult(_m.Called(ctx, id, delta))
}

// Rename provides a mock function with given fields: ctx, id, name
func (_m *MockIAccountWriter) Rename(ctx context.Context, id int64, name string) (*Account, error) {
	return accountResult(_m.Called(ctx, id, name))
}

// Deactivate provides a mock function with given fields: ctx, id
func (_m *MockIAccountWriter) Deactivate(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}
