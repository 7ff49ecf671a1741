package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/storage/transaction"
)

// Transaction represents a ledger entry in the service layer.
type Transaction struct {
	ID                   int64
	AccountID            int64
	DestinationAccountID *int64
	Type                 string
	Amount               decimal.Decimal
	Currency             string
	Description          string
	UserID               int64
	CreatedAt            time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransferRequest is a transfer as submitted by a client. Amount is parsed
// by the service so a malformed value is reported as an invalid amount.
type TransferRequest struct {
	SourceAccountID          int64
	DestinationAccountNumber string
	Amount                   string
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	return Transaction{
		ID:                   row.ID,
		AccountID:            row.AccountID,
		DestinationAccountID: row.DestinationAccountID,
		Type:                 string(row.Type),
		Amount:               row.Amount,
		Currency:             row.Currency,
		Description:          row.Description,
		UserID:               row.UserID,
		CreatedAt:            row.CreatedAt,
	}
}
