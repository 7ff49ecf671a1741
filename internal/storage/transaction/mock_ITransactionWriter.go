package transaction

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockITransactionWriter is a mock type for the ITransactionWriter type
type MockITransactionWriter struct {
	mock.Mock
}

var _ ITransactionWriter = (*MockITransactionWriter)(nil)

// NewMockITransactionWriter creates a new instance of MockITransactionWriter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockITransactionWriter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockITransactionWriter {
	m := &MockITransactionWriter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *MockITransactionWriter) FindByID(ctx context.Context, id int64) (*Transaction, error) {
	ret := _m.Called(ctx, id)
	row, _ := ret.Get(0).(*Transaction)
	return row, ret.Error(1)
}

// ListForAccounts provides a mock function with given fields: ctx, filter
func (_m *MockITransactionWriter) ListForAccounts(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	ret := _m.Called(ctx, filter)
	rows, _ := ret.Get(0).([]*Transaction)
	return rows, ret.Error(1)
}

// Append provides a mock function with given fields: ctx, create
func (_m *MockITransactionWriter) Append(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	ret := _m.Called(ctx, create)
	row, _ := ret.Get(0).(*Transaction)
	return row, ret.Error(1)
}
