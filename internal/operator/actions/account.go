package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/storage/account"
	"github.com/carson-networks/bank-server/internal/storage/transaction"
)

const (
	DefaultCurrency          = "€"
	DefaultMaxNumberAttempts = 5

	initialDepositDescription = "Initial deposit"
)

// CreateAccount opens an account for OwnerID under a freshly generated
// account number. A number already in use is replaced by a new one, up to
// MaxNumberAttempts times.
type CreateAccount struct {
	OwnerID           int64
	Name              string
	Currency          string
	Country           string
	InitialBalance    decimal.Decimal
	MaxNumberAttempts int

	// NewNumber generates candidate numbers; account.NewNumber when nil.
	NewNumber func() (string, error)

	Result *account.Account

	IAction
}

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("%w: account name is required", bankerr.ErrInvalidInput)
	}
	if c.InitialBalance.IsNegative() {
		return bankerr.ErrInvalidAmount
	}

	currency := c.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	attempts := c.MaxNumberAttempts
	if attempts < 1 {
		attempts = DefaultMaxNumberAttempts
	}
	newNumber := c.NewNumber
	if newNumber == nil {
		newNumber = account.NewNumber
	}

	for i := 0; i < attempts; i++ {
		number, err := newNumber()
		if err != nil {
			return err
		}
		exists, err := writer.Account.NumberExists(ctx, number)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		acct, err := writer.Account.Insert(ctx, &account.AccountCreate{
			Name:     name,
			Number:   number,
			Balance:  c.InitialBalance,
			Currency: currency,
			Country:  c.Country,
			OwnerID:  c.OwnerID,
		})
		if err != nil {
			return err
		}

		if acct.Balance.IsPositive() {
			_, err = writer.Transaction.Append(ctx, &transaction.TransactionCreate{
				AccountID:   acct.ID,
				Type:        transaction.TypeDeposit,
				Amount:      acct.Balance,
				Currency:    acct.Currency,
				Description: initialDepositDescription,
				UserID:      c.OwnerID,
			})
			if err != nil {
				return err
			}
		}

		c.Result = acct
		return nil
	}
	return bankerr.ErrAccountNumberExhausted
}

// RenameAccount changes the display name of an account the principal may
// access.
type RenameAccount struct {
	Principal policy.Principal
	AccountID int64
	Name      string

	Result *account.Account

	IAction
}

func (r *RenameAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return fmt.Errorf("%w: account name is required", bankerr.ErrInvalidInput)
	}
	if _, err := lockAccessibleAccount(ctx, writer, r.Principal, r.AccountID); err != nil {
		return err
	}

	acct, err := writer.Account.Rename(ctx, r.AccountID, name)
	if err != nil {
		return err
	}
	r.Result = acct
	return nil
}

// DeactivateAccount soft deletes an account. Deactivating an account that
// is already inactive succeeds without change, provided the principal may
// access it.
type DeactivateAccount struct {
	Principal policy.Principal
	AccountID int64

	IAction
}

func (d *DeactivateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	acct, err := writer.Account.FindByIDForUpdate(ctx, d.AccountID)
	if err != nil {
		return err
	}
	if err := policy.RequireAccountAccess(d.Principal, acct); err != nil {
		if !acct.Active() {
			return bankerr.ErrAccountNotFound
		}
		return err
	}
	if !acct.Active() {
		return nil
	}

	err = writer.Account.Deactivate(ctx, acct.ID)
	if errors.Is(err, bankerr.ErrAccountNotFound) {
		return nil
	}
	return err
}
