package actions

import (
	"context"
	"testing"

	"github.com/aarondl/opt/omit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/storage/account"
	"github.com/carson-networks/bank-server/internal/storage/user"
)

func activeUser(id int64, username string) *user.User {
	return &user.User{ID: id, Username: username, Email: username + "@example.com", Status: user.StatusActive}
}

func TestRegisterUser_WithInitialAccount(t *testing.T) {
	writer, m := newTestWriter(t)
	ctx := context.Background()

	m.users.On("Insert", ctx, mock.MatchedBy(func(c *user.UserCreate) bool {
		return c.Username == "carol" && c.Email == "carol@example.com" && c.PasswordHash == "hash" && !c.Admin
	})).Return(activeUser(12, "carol"), nil)
	m.accounts.On("NumberExists", ctx, sourceNumber).Return(false, nil)
	m.accounts.On("Insert", ctx, mock.MatchedBy(func(c *account.AccountCreate) bool {
		return c.OwnerID == 12
	})).Return(activeAccount(3, 12, sourceNumber, "0"), nil)

	action := &RegisterUser{
		Username:     "carol",
		Email:        "carol@example.com",
		PasswordHash: "hash",
		InitialAccount: &CreateAccount{
			Name:      "Main",
			NewNumber: sequence(sourceNumber),
		},
	}

	require.NoError(t, action.Perform(ctx, writer))
	assert.Equal(t, int64(12), action.Result.ID)
	assert.Equal(t, int64(3), action.InitialAccount.Result.ID)
}

func TestRegisterUser_Duplicate(t *testing.T) {
	writer, m := newTestWriter(t)
	ctx := context.Background()

	m.users.On("Insert", ctx, mock.Anything).Return(nil, bankerr.ErrDuplicateUser)

	action := &RegisterUser{Username: "carol", Email: "carol@example.com", PasswordHash: "hash"}
	assert.ErrorIs(t, action.Perform(ctx, writer), bankerr.ErrDuplicateUser)
}

func TestRegisterUser_InvalidEmail(t *testing.T) {
	writer, _ := newTestWriter(t)

	action := &RegisterUser{Username: "carol", Email: "carol", PasswordHash: "hash"}
	assert.ErrorIs(t, action.Perform(context.Background(), writer), bankerr.ErrInvalidInput)
}

func TestCreateUser_RequiresAdmin(t *testing.T) {
	writer, m := newTestWriter(t)
	ctx := context.Background()

	action := &CreateUser{Principal: owner, Username: "dave", Email: "dave@example.com", PasswordHash: "hash", Admin: true}
	assert.ErrorIs(t, action.Perform(ctx, writer), bankerr.ErrForbidden)

	m.users.On("Insert", ctx, mock.MatchedBy(func(c *user.UserCreate) bool { return c.Admin })).Return(activeUser(13, "dave"), nil)
	action.Principal = admin
	require.NoError(t, action.Perform(ctx, writer))
	assert.Equal(t, int64(13), action.Result.ID)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin updates set fields", func(t *testing.T) {
		writer, m := newTestWriter(t)
		update := user.UserUpdate{Email: omit.From("new@example.com")}
		m.users.On("FindByID", ctx, int64(1)).Return(activeUser(1, "alice"), nil)
		m.users.On("Update", ctx, int64(1), &update).Return(activeUser(1, "alice"), nil)

		action := &UpdateUser{Principal: admin, UserID: 1, Update: update}
		assert.NoError(t, action.Perform(ctx, writer))
	})

	t.Run("inactive user", func(t *testing.T) {
		writer, m := newTestWriter(t)
		u := activeUser(1, "alice")
		u.Status = user.StatusInactive
		m.users.On("FindByID", ctx, int64(1)).Return(u, nil)

		action := &UpdateUser{Principal: admin, UserID: 1, Update: user.UserUpdate{Admin: omit.From(true)}}
		assert.ErrorIs(t, action.Perform(ctx, writer), bankerr.ErrUserNotFound)
	})

	t.Run("non admin", func(t *testing.T) {
		writer, _ := newTestWriter(t)
		action := &UpdateUser{Principal: owner, UserID: 1}
		assert.ErrorIs(t, action.Perform(ctx, writer), bankerr.ErrForbidden)
	})
}

func TestDeactivateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("soft deletes", func(t *testing.T) {
		writer, m := newTestWriter(t)
		m.users.On("FindByID", ctx, int64(1)).Return(activeUser(1, "alice"), nil)
		m.users.On("Deactivate", ctx, int64(1)).Return(nil).Once()

		assert.NoError(t, (&DeactivateUser{Principal: admin, UserID: 1}).Perform(ctx, writer))
	})

	t.Run("idempotent", func(t *testing.T) {
		writer, m := newTestWriter(t)
		u := activeUser(1, "alice")
		u.Status = user.StatusInactive
		m.users.On("FindByID", ctx, int64(1)).Return(u, nil)

		assert.NoError(t, (&DeactivateUser{Principal: admin, UserID: 1}).Perform(ctx, writer))
		m.users.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
	})

	t.Run("not self", func(t *testing.T) {
		writer, _ := newTestWriter(t)
		assert.ErrorIs(t, (&DeactivateUser{Principal: admin, UserID: admin.UserID}).Perform(ctx, writer), bankerr.ErrInvalidInput)
	})

	t.Run("non admin", func(t *testing.T) {
		writer, _ := newTestWriter(t)
		assert.ErrorIs(t, (&DeactivateUser{Principal: owner, UserID: 2}).Perform(ctx, writer), bankerr.ErrForbidden)
	})
}
