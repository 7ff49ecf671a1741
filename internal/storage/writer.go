package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/bank-server/internal/storage/account"
	"github.com/carson-networks/bank-server/internal/storage/transaction"
	"github.com/carson-networks/bank-server/internal/storage/user"
)

// Tx is the commit side of a database transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type txExecutor interface {
	bob.Executor
	Tx
}

// Writer groups the table writers that share one transaction. Nothing it
// does is visible to other connections until Commit.
type Writer struct {
	tx          Tx
	Account     account.IAccountWriter
	Transaction transaction.ITransactionWriter
	User        user.IUserWriter
}

func NewWriter(tx txExecutor) *Writer {
	return ComposeWriter(tx, account.NewWriter(tx), transaction.NewWriter(tx), user.NewWriter(tx))
}

// ComposeWriter builds a Writer from explicit parts, for callers that
// supply their own table writers.
func ComposeWriter(tx Tx, accounts account.IAccountWriter, transactions transaction.ITransactionWriter, users user.IUserWriter) *Writer {
	return &Writer{
		tx:          tx,
		Account:     accounts,
		Transaction: transactions,
		User:        users,
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
