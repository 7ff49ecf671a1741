package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/storage/account"
	"github.com/carson-networks/bank-server/internal/storage/transaction"
)

const transferDescriptionPrefix = "Transfer to "

// Transfer moves Amount from the source account to the account holding
// DestinationNumber and records one TRANSFER ledger entry. Checks run in a
// fixed order, so a request with several problems always reports the
// first: amount, source, access, destination, funds.
type Transfer struct {
	Principal         policy.Principal
	SourceAccountID   int64
	DestinationNumber string
	Amount            decimal.Decimal

	Result *transaction.Transaction

	IAction
}

func (t *Transfer) Perform(ctx context.Context, writer *storage.Writer) error {
	if !t.Amount.IsPositive() {
		return bankerr.ErrInvalidAmount
	}

	source, err := writer.Account.FindByID(ctx, t.SourceAccountID)
	if err != nil {
		return err
	}
	if !source.Active() {
		return bankerr.ErrAccountNotFound
	}
	if err := policy.RequireAccountAccess(t.Principal, source); err != nil {
		return err
	}

	if !account.ValidNumber(t.DestinationNumber) {
		return bankerr.ErrDestinationNotFound
	}
	destination, err := writer.Account.FindByNumber(ctx, t.DestinationNumber)
	if isNotFound(err) {
		return bankerr.ErrDestinationNotFound
	}
	if err != nil {
		return err
	}
	if !destination.Active() {
		return bankerr.ErrDestinationNotFound
	}

	source, destination, err = lockPair(ctx, writer, source.ID, destination.ID)
	if err != nil {
		return err
	}
	if !source.Active() {
		return bankerr.ErrAccountNotFound
	}
	if !destination.Active() {
		return bankerr.ErrDestinationNotFound
	}
	if source.Balance.LessThan(t.Amount) {
		return bankerr.ErrInsufficientFunds
	}

	if _, err := writer.Account.AdjustBalance(ctx, source.ID, t.Amount.Neg()); err != nil {
		return err
	}
	if _, err := writer.Account.AdjustBalance(ctx, destination.ID, t.Amount); err != nil {
		return err
	}

	destinationID := destination.ID
	entry, err := writer.Transaction.Append(ctx, &transaction.TransactionCreate{
		AccountID:            source.ID,
		DestinationAccountID: &destinationID,
		Type:                 transaction.TypeTransfer,
		Amount:               t.Amount,
		Currency:             source.Currency,
		Description:          transferDescriptionPrefix + destination.Number,
		UserID:               t.Principal.UserID,
	})
	if err != nil {
		return err
	}
	t.Result = entry
	return nil
}

// lockPair takes the row locks of both accounts in ascending id order, so
// two transfers over the same pair in opposite directions cannot deadlock.
// The rows are re-read under the lock.
func lockPair(ctx context.Context, writer *storage.Writer, sourceID, destinationID int64) (*account.Account, *account.Account, error) {
	if sourceID == destinationID {
		acct, err := writer.Account.FindByIDForUpdate(ctx, sourceID)
		if err != nil {
			return nil, nil, err
		}
		return acct, acct, nil
	}

	firstID, secondID := sourceID, destinationID
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}

	first, err := writer.Account.FindByIDForUpdate(ctx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := writer.Account.FindByIDForUpdate(ctx, secondID)
	if err != nil {
		return nil, nil, err
	}

	if first.ID == sourceID {
		return first, second, nil
	}
	return second, first, nil
}
