package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const TableName = "transactions"

// Type is the kind of balance change a ledger entry records.
type Type string

const (
	TypeDeposit  Type = "DEPOSIT"
	TypeWithdraw Type = "WITHDRAW"
	TypeTransfer Type = "TRANSFER"
)

// Transaction represents a ledger entry. Rows are append-only.
type Transaction struct {
	ID                   int64           `db:"id"`
	CreatedAt            time.Time       `db:"created_at"`
	AccountID            int64           `db:"account_id"`
	DestinationAccountID *int64          `db:"sent_account_id"`
	Type                 Type            `db:"transaction_type"`
	Amount               decimal.Decimal `db:"amount"`
	Currency             string          `db:"currency"`
	Description          string          `db:"description"`
	UserID               int64           `db:"user_id"`
}

// TransactionCreate is the input for appending a ledger entry.
// DestinationAccountID is set for transfers only.
type TransactionCreate struct {
	AccountID            int64
	DestinationAccountID *int64
	Type                 Type
	Amount               decimal.Decimal
	Currency             string
	Description          string
	UserID               int64
}

// TransactionFilter specifies filters for listing ledger entries.
// An entry matches when its account or its destination account is in
// AccountIDs. A nil AccountIDs matches every entry; an empty, non-nil one
// matches none.
type TransactionFilter struct {
	AccountIDs      []int64
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// ITransactionReader defines the read side of the ledger.
type ITransactionReader interface {
	FindByID(ctx context.Context, id int64) (*Transaction, error)
	ListForAccounts(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
}

// ITransactionWriter defines ledger operations available inside a database
// transaction. Entries are never updated or deleted.
type ITransactionWriter interface {
	ITransactionReader
	Append(ctx context.Context, create *TransactionCreate) (*Transaction, error)
}

var columns = []any{
	"id",
	"created_at",
	"account_id",
	"sent_account_id",
	"transaction_type",
	"amount",
	"currency",
	"description",
	"user_id",
}
