package transaction

import (
	"context"
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	tx bob.Executor
	Reader
}

var _ ITransactionWriter = (*Writer)(nil)

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// Append writes one immutable ledger entry and returns it with its id and
// creation time filled in.
func (w *Writer) Append(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	q := psql.Insert(
		im.Into(TableName, "account_id", "sent_account_id", "transaction_type", "amount", "currency", "description", "user_id"),
		im.Values(psql.Arg(
			create.AccountID,
			create.DestinationAccountID,
			create.Type,
			create.Amount,
			create.Currency,
			create.Description,
			create.UserID,
		)),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, fmt.Errorf("transaction.Append: %w", err)
	}
	return row, nil
}
