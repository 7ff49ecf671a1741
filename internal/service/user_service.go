package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aarondl/opt/omit"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/storage/user"
)

const defaultUserLimit = 20

// UserService handles registration, login and user administration.
type UserService struct {
	reader            *storage.Reader
	processor         ActionProcessor
	tokens            *auth.TokenIssuer
	maxNumberAttempts int
}

func NewUserService(reader *storage.Reader, processor ActionProcessor, tokens *auth.TokenIssuer, maxNumberAttempts int) *UserService {
	return &UserService{
		reader:            reader,
		processor:         processor,
		tokens:            tokens,
		maxNumberAttempts: maxNumberAttempts,
	}
}

// Register creates a regular user and, when requested, their first account.
// The returned account is nil when none was opened.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*User, *Account, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	action := &actions.RegisterUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if name := strings.TrimSpace(req.InitialAccountName); name != "" {
		action.InitialAccount = &actions.CreateAccount{
			Name:              name,
			MaxNumberAttempts: s.maxNumberAttempts,
		}
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, nil, err
	}

	u := userFromStorage(action.Result)
	if action.InitialAccount == nil {
		return &u, nil, nil
	}
	acct := accountFromStorage(action.InitialAccount.Result)
	return &u, &acct, nil
}

// Login checks the credentials of an active user and issues a bearer token.
// Unknown emails, inactive users and wrong passwords all report
// ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	row, err := s.reader.Users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, bankerr.ErrUserNotFound) {
		return nil, bankerr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !row.Active() || !auth.CheckPassword(row.PasswordHash, password) {
		return nil, bankerr.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(row.ID)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      userFromStorage(row),
	}, nil
}

// ListUsers returns a page of active users. Admin only.
func (s *UserService) ListUsers(ctx context.Context, p policy.Principal, cursor *UserCursor) ([]User, *UserCursor, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return nil, nil, err
	}

	limit := defaultUserLimit
	offset := 0
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
	}

	rows, err := s.reader.Users.List(ctx, &user.UserFilter{Limit: limit, Offset: offset})
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *UserCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &UserCursor{Position: offset + limit, Limit: limit}
	}

	users := make([]User, len(rows))
	for i, row := range rows {
		users[i] = userFromStorage(row)
	}
	return users, nextCursor, nil
}

// CreateUser creates a user, possibly an admin. Admin only.
func (s *UserService) CreateUser(ctx context.Context, p policy.Principal, req CreateUserRequest) (*User, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	action := &actions.CreateUser{
		Principal:    p,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Admin:        req.Admin,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	u := userFromStorage(action.Result)
	return &u, nil
}

// UpdateUser changes the fields set in req. Admin only.
func (s *UserService) UpdateUser(ctx context.Context, p policy.Principal, id int64, req UpdateUserRequest) (*User, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return nil, err
	}

	var update user.UserUpdate
	if req.Username != nil {
		update.Username = omit.From(strings.TrimSpace(*req.Username))
	}
	if req.Email != nil {
		update.Email = omit.From(strings.TrimSpace(*req.Email))
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = omit.From(hash)
	}
	if req.Admin != nil {
		update.Admin = omit.From(*req.Admin)
	}

	action := &actions.UpdateUser{Principal: p, UserID: id, Update: update}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	u := userFromStorage(action.Result)
	return &u, nil
}

// DeactivateUser soft deletes a user. Admin only.
func (s *UserService) DeactivateUser(ctx context.Context, p policy.Principal, id int64) error {
	return s.processor.Process(ctx, &actions.DeactivateUser{Principal: p, UserID: id})
}
