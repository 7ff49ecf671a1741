package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/storage/transaction"
)

const (
	depositDescription  = "Deposit"
	withdrawDescription = "Withdrawal"
)

// Deposit credits an account and records a DEPOSIT ledger entry.
type Deposit struct {
	Principal   policy.Principal
	AccountID   int64
	Amount      decimal.Decimal
	Description string

	Result *transaction.Transaction

	IAction
}

func (d *Deposit) Perform(ctx context.Context, writer *storage.Writer) error {
	entry, err := moveFunds(ctx, writer, d.Principal, d.AccountID, d.Amount, transaction.TypeDeposit, describe(d.Description, depositDescription))
	if err != nil {
		return err
	}
	d.Result = entry
	return nil
}

// Withdraw debits an account and records a WITHDRAW ledger entry. The
// balance never goes below zero.
type Withdraw struct {
	Principal   policy.Principal
	AccountID   int64
	Amount      decimal.Decimal
	Description string

	Result *transaction.Transaction

	IAction
}

func (w *Withdraw) Perform(ctx context.Context, writer *storage.Writer) error {
	entry, err := moveFunds(ctx, writer, w.Principal, w.AccountID, w.Amount, transaction.TypeWithdraw, describe(w.Description, withdrawDescription))
	if err != nil {
		return err
	}
	w.Result = entry
	return nil
}

func moveFunds(
	ctx context.Context,
	writer *storage.Writer,
	p policy.Principal,
	accountID int64,
	amount decimal.Decimal,
	kind transaction.Type,
	description string,
) (*transaction.Transaction, error) {
	if !amount.IsPositive() {
		return nil, bankerr.ErrInvalidAmount
	}

	acct, err := lockAccessibleAccount(ctx, writer, p, accountID)
	if err != nil {
		return nil, err
	}

	delta := amount
	if kind == transaction.TypeWithdraw {
		if acct.Balance.LessThan(amount) {
			return nil, bankerr.ErrInsufficientFunds
		}
		delta = amount.Neg()
	}
	if _, err := writer.Account.AdjustBalance(ctx, acct.ID, delta); err != nil {
		return nil, err
	}

	return writer.Transaction.Append(ctx, &transaction.TransactionCreate{
		AccountID:   acct.ID,
		Type:        kind,
		Amount:      amount,
		Currency:    acct.Currency,
		Description: description,
		UserID:      p.UserID,
	})
}

func describe(description, fallback string) string {
	if description == "" {
		return fallback
	}
	return description
}
