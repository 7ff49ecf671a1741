package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/bank-server/internal/bankerr"
)

// ErrNumberTaken is returned by Insert when the account number collides
// with an existing row.
var ErrNumberTaken = errors.New("account number already in use")

const uniqueViolation = "23505"

type Writer struct {
	tx bob.Executor
	Reader
}

var _ IAccountWriter = (*Writer)(nil)

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// FindByIDForUpdate reads the account and holds its row lock until the
// enclosing transaction ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id int64) (*Account, error) {
	return w.findOne(ctx,
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate(),
	)
}

func (w *Writer) NumberExists(ctx context.Context, number string) (bool, error) {
	_, err := w.FindByNumber(ctx, number)
	if errors.Is(err, bankerr.ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (w *Writer) Insert(ctx context.Context, create *AccountCreate) (*Account, error) {
	q := psql.Insert(
		im.Into(TableName, "name", "account_number", "balance", "currency", "country", "status", "user_id"),
		im.Values(psql.Arg(
			create.Name,
			create.Number,
			create.Balance,
			create.Currency,
			create.Country,
			StatusActive,
			create.OwnerID,
		)),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[*Account]())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrNumberTaken
		}
		return nil, fmt.Errorf("account.Insert: %w", err)
	}
	return row, nil
}

// AdjustBalance adds delta to the balance. The update only applies when the
// result stays non-negative, so two writers racing on the same row can never
// drive it below zero even without a prior lock.
func (w *Writer) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (*Account, error) {
	q := psql.Update(
		um.Table(TableName),
		um.SetCol("balance").To(psql.Raw("balance + ?", delta)),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Raw("balance + ? >= 0", delta)),
		um.Returning(columns...),
	)

	rows, err := bob.All(ctx, w.tx, q, scan.StructMapper[*Account]())
	if err != nil {
		return nil, fmt.Errorf("account.AdjustBalance: %w", err)
	}
	if len(rows) == 0 {
		if _, err := w.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, bankerr.ErrInsufficientFunds
	}
	return rows[0], nil
}

func (w *Writer) Rename(ctx context.Context, id int64, name string) (*Account, error) {
	q := psql.Update(
		um.Table(TableName),
		um.SetCol("name").ToArg(name),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(columns...),
	)

	rows, err := bob.All(ctx, w.tx, q, scan.StructMapper[*Account]())
	if err != nil {
		return nil, fmt.Errorf("account.Rename: %w", err)
	}
	if len(rows) == 0 {
		return nil, bankerr.ErrAccountNotFound
	}
	return rows[0], nil
}

// Deactivate marks the account Inactive. Deactivating an inactive account
// is a no-op.
func (w *Writer) Deactivate(ctx context.Context, id int64) error {
	q := psql.Update(
		um.Table(TableName),
		um.SetCol("status").ToArg(StatusInactive),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	res, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return fmt.Errorf("account.Deactivate: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("account.Deactivate: %w", err)
	}
	if affected == 0 {
		return bankerr.ErrAccountNotFound
	}
	return nil
}
