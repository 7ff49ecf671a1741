package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/storage/user"
)

// RegisterUser signs up a regular user. When InitialAccount is set the
// account is opened for the new user in the same transaction.
type RegisterUser struct {
	Username       string
	Email          string
	PasswordHash   string
	InitialAccount *CreateAccount

	Result *user.User

	IAction
}

func (r *RegisterUser) Perform(ctx context.Context, writer *storage.Writer) error {
	u, err := insertUser(ctx, writer, r.Username, r.Email, r.PasswordHash, false)
	if err != nil {
		return err
	}

	if r.InitialAccount != nil {
		r.InitialAccount.OwnerID = u.ID
		if err := r.InitialAccount.Perform(ctx, writer); err != nil {
			return err
		}
	}

	r.Result = u
	return nil
}

// CreateUser lets an admin create a user, optionally another admin.
type CreateUser struct {
	Principal    policy.Principal
	Username     string
	Email        string
	PasswordHash string
	Admin        bool

	Result *user.User

	IAction
}

func (c *CreateUser) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := policy.RequireAdmin(c.Principal); err != nil {
		return err
	}
	u, err := insertUser(ctx, writer, c.Username, c.Email, c.PasswordHash, c.Admin)
	if err != nil {
		return err
	}
	c.Result = u
	return nil
}

// UpdateUser lets an admin change the set fields of Update on an active
// user.
type UpdateUser struct {
	Principal policy.Principal
	UserID    int64
	Update    user.UserUpdate

	Result *user.User

	IAction
}

func (u *UpdateUser) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := policy.RequireAdmin(u.Principal); err != nil {
		return err
	}

	if v, ok := u.Update.Username.Get(); ok && strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: username must not be empty", bankerr.ErrInvalidInput)
	}
	if v, ok := u.Update.Email.Get(); ok && !strings.Contains(v, "@") {
		return fmt.Errorf("%w: email is not valid", bankerr.ErrInvalidInput)
	}

	existing, err := writer.User.FindByID(ctx, u.UserID)
	if err != nil {
		return err
	}
	if !existing.Active() {
		return bankerr.ErrUserNotFound
	}

	updated, err := writer.User.Update(ctx, u.UserID, &u.Update)
	if err != nil {
		return err
	}
	u.Result = updated
	return nil
}

// DeactivateUser lets an admin soft delete a user. The row, its accounts
// and its ledger entries are kept; the user can no longer authenticate.
type DeactivateUser struct {
	Principal policy.Principal
	UserID    int64

	IAction
}

func (d *DeactivateUser) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := policy.RequireAdmin(d.Principal); err != nil {
		return err
	}
	if d.UserID == d.Principal.UserID {
		return fmt.Errorf("%w: admins cannot deactivate themselves", bankerr.ErrInvalidInput)
	}

	existing, err := writer.User.FindByID(ctx, d.UserID)
	if err != nil {
		return err
	}
	if !existing.Active() {
		return nil
	}
	return writer.User.Deactivate(ctx, d.UserID)
}

func insertUser(ctx context.Context, writer *storage.Writer, username, email, passwordHash string, admin bool) (*user.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", bankerr.ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is not valid", bankerr.ErrInvalidInput)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("%w: password is required", bankerr.ErrInvalidInput)
	}

	return writer.User.Insert(ctx, &user.UserCreate{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Admin:        admin,
	})
}
