package user

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockIUserWriter is a mock type for the IUserWriter type
type MockIUserWriter struct {
	mock.Mock
}

var _ IUserWriter = (*MockIUserWriter)(nil)

// NewMockIUserWriter creates a new instance of MockIUserWriter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockIUserWriter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIUserWriter {
	m := &MockIUserWriter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func userResult(args mock.Arguments) (*User, error) {
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *MockIUserWriter) FindByID(ctx context.Context, id int64) (*User, error) {
	return userResult(_m.Called(ctx, id))
}

// FindByEmail provides a mock function with given fields: ctx, email
func (_m *MockIUserWriter) FindByEmail(ctx context.Context, email string) (*User, error) {
	return userResult(_m.Called(ctx, email))
}

// List provides a mock function with given fields: ctx, filter
func (_m *MockIUserWriter) List(ctx context.Context, filter *UserFilter) ([]*User, error) {
	ret := _m.Called(ctx, filter)
	rows, _ := ret.Get(0).([]*User)
	return rows, ret.Error(1)
}

// Insert provides a mock function with given fields: ctx, create
func (_m *MockIUserWriter) Insert(ctx context.Context, create *UserCreate) (*User, error) {
	return userResult(_m.Called(ctx, create))
}

// Update provides a mock function with given fields: ctx, id, update
func (_m *MockIUserWriter) Update(ctx context.Context, id int64, update *UserUpdate) (*User, error) {
	return userResult(_m.Called(ctx, id, update))
}

// Deactivate provides a mock function with given fields: ctx, id
func (_m *MockIUserWriter) Deactivate(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}
