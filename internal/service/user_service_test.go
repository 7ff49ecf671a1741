package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/storage/user"
)

func storageUser(t *testing.T, id int64, password string) *user.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &user.User{
		ID:           id,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Status:       user.StatusActive,
	}
}

func TestRegister_HashesPasswordAndOpensAccount(t *testing.T) {
	reader, _ := newTestReader(t)
	processor := &fakeProcessor{perform: func(a actions.IAction) error {
		register := a.(*actions.RegisterUser)
		assert.NotEqual(t, "hunter2", register.PasswordHash)
		assert.True(t, auth.CheckPassword(register.PasswordHash, "hunter2"))
		require.NotNil(t, register.InitialAccount)
		assert.Equal(t, "Main", register.InitialAccount.Name)

		register.Result = &user.User{ID: 3, Username: register.Username, Email: register.Email, Status: user.StatusActive}
		register.InitialAccount.Result = storageAccount(8, 3, "0")
		return nil
	}}
	svc := NewUserService(reader, processor, auth.NewTokenIssuer("secret", time.Hour), 5)

	u, acct, err := svc.Register(context.Background(), RegisterRequest{
		Username:           "alice",
		Email:              "alice@example.com",
		Password:           "hunter2",
		InitialAccountName: "Main",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	require.NotNil(t, acct)
	assert.Equal(t, int64(8), acct.ID)
}

func TestRegister_WithoutAccount(t *testing.T) {
	reader, _ := newTestReader(t)
	processor := &fakeProcessor{perform: func(a actions.IAction) error {
		register := a.(*actions.RegisterUser)
		assert.Nil(t, register.InitialAccount)
		register.Result = &user.User{ID: 3, Status: user.StatusActive}
		return nil
	}}
	svc := NewUserService(reader, processor, auth.NewTokenIssuer("secret", time.Hour), 5)

	_, acct, err := svc.Register(context.Background(), RegisterRequest{Username: "a", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Nil(t, acct)
}

func TestRegister_EmptyPassword(t *testing.T) {
	reader, _ := newTestReader(t)
	processor := &fakeProcessor{}
	svc := NewUserService(reader, processor, auth.NewTokenIssuer("secret", time.Hour), 5)

	_, _, err := svc.Register(context.Background(), RegisterRequest{Username: "a", Email: "a@b.c"})
	assert.ErrorIs(t, err, bankerr.ErrInvalidInput)
	assert.Empty(t, processor.processed)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenIssuer("secret", time.Hour)

	t.Run("valid credentials issue a token for the user", func(t *testing.T) {
		reader, m := newTestReader(t)
		m.users.On("FindByEmail", ctx, "alice@example.com").Return(storageUser(t, 1, "hunter2"), nil)

		session, err := NewUserService(reader, nil, tokens, 5).Login(ctx, " alice@example.com ", "hunter2")
		require.NoError(t, err)

		userID, err := tokens.Parse(session.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), userID)
		assert.Equal(t, "alice", session.User.Username)
		assert.True(t, session.ExpiresAt.After(time.Now()))
	})

	t.Run("wrong password", func(t *testing.T) {
		reader, m := newTestReader(t)
		m.users.On("FindByEmail", ctx, "alice@example.com").Return(storageUser(t, 1, "hunter2"), nil)

		_, err := NewUserService(reader, nil, tokens, 5).Login(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, bankerr.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		reader, m := newTestReader(t)
		m.users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, bankerr.ErrUserNotFound)

		_, err := NewUserService(reader, nil, tokens, 5).Login(ctx, "nobody@example.com", "x")
		assert.ErrorIs(t, err, bankerr.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		reader, m := newTestReader(t)
		u := storageUser(t, 1, "hunter2")
		u.Status = user.StatusInactive
		m.users.On("FindByEmail", ctx, "alice@example.com").Return(u, nil)

		_, err := NewUserService(reader, nil, tokens, 5).Login(ctx, "alice@example.com", "hunter2")
		assert.ErrorIs(t, err, bankerr.ErrInvalidCredentials)
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("admin", func(t *testing.T) {
		reader, m := newTestReader(t)
		m.users.On("List", ctx, mock.MatchedBy(func(f *user.UserFilter) bool {
			return f.Limit == defaultUserLimit && !f.IncludeInactive
		})).Return([]*user.User{{ID: 1, Status: user.StatusActive}, {ID: 2, Status: user.StatusActive}}, nil)

		users, next, err := NewUserService(reader, nil, nil, 5).ListUsers(ctx, root, nil)
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Nil(t, next)
	})

	t.Run("non admin", func(t *testing.T) {
		reader, _ := newTestReader(t)
		_, _, err := NewUserService(reader, nil, nil, 5).ListUsers(ctx, alice, nil)
		assert.ErrorIs(t, err, bankerr.ErrForbidden)
	})
}

func TestCreateUser_NonAdminNeverHashes(t *testing.T) {
	reader, _ := newTestReader(t)
	processor := &fakeProcessor{}

	_, err := NewUserService(reader, processor, nil, 5).CreateUser(context.Background(), alice, CreateUserRequest{
		Username: "x", Email: "x@y.z", Password: "pw", Admin: true,
	})
	assert.ErrorIs(t, err, bankerr.ErrForbidden)
	assert.Empty(t, processor.processed)
}

func TestUpdateUser_BuildsPatch(t *testing.T) {
	reader, _ := newTestReader(t)
	processor := &fakeProcessor{perform: func(a actions.IAction) error {
		update := a.(*actions.UpdateUser)
		assert.Equal(t, int64(4), update.UserID)

		email, ok := update.Update.Email.Get()
		assert.True(t, ok)
		assert.Equal(t, "new@example.com", email)

		isAdmin, ok := update.Update.Admin.Get()
		assert.True(t, ok)
		assert.True(t, isAdmin)

		_, ok = update.Update.Username.Get()
		assert.False(t, ok)

		hash, ok := update.Update.PasswordHash.Get()
		assert.True(t, ok)
		assert.True(t, auth.CheckPassword(hash, "new-secret"))

		update.Result = &user.User{ID: 4, Email: email, Admin: true, Status: user.StatusActive}
		return nil
	}}

	email := " new@example.com "
	password := "new-secret"
	isAdmin := true
	u, err := NewUserService(reader, processor, nil, 5).UpdateUser(context.Background(), root, 4, UpdateUserRequest{
		Email:    &email,
		Password: &password,
		Admin:    &isAdmin,
	})

	require.NoError(t, err)
	assert.True(t, u.Admin)
}

func TestDeactivateUser_Dispatches(t *testing.T) {
	reader, _ := newTestReader(t)
	processor := &fakeProcessor{}

	require.NoError(t, NewUserService(reader, processor, nil, 5).DeactivateUser(context.Background(), root, 4))
	require.Len(t, processor.processed, 1)
	assert.Equal(t, &actions.DeactivateUser{Principal: root, UserID: 4}, processor.processed[0])
}
