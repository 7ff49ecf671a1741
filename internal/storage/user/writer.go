package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/bank-server/internal/bankerr"
)

const uniqueViolation = "23505"

type Writer struct {
	tx bob.Executor
	Reader
}

var _ IUserWriter = (*Writer)(nil)

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

func (w *Writer) Insert(ctx context.Context, create *UserCreate) (*User, error) {
	q := psql.Insert(
		im.Into(TableName, "username", "email", "password_hash", "admin", "status"),
		im.Values(psql.Arg(create.Username, create.Email, create.PasswordHash, create.Admin, StatusActive)),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[*User]())
	if err != nil {
		return nil, translateWriteErr("user.Insert", err)
	}
	return row, nil
}

// Update applies the set fields of update. With nothing set it returns the
// current row.
func (w *Writer) Update(ctx context.Context, id int64, update *UserUpdate) (*User, error) {
	var sets []bob.Mod[*dialect.UpdateQuery]
	if v, ok := update.Username.Get(); ok {
		sets = append(sets, um.SetCol("username").ToArg(v))
	}
	if v, ok := update.Email.Get(); ok {
		sets = append(sets, um.SetCol("email").ToArg(v))
	}
	if v, ok := update.PasswordHash.Get(); ok {
		sets = append(sets, um.SetCol("password_hash").ToArg(v))
	}
	if v, ok := update.Admin.Get(); ok {
		sets = append(sets, um.SetCol("admin").ToArg(v))
	}
	if len(sets) == 0 {
		return w.FindByID(ctx, id)
	}

	queryMods := append([]bob.Mod[*dialect.UpdateQuery]{um.Table(TableName)}, sets...)
	queryMods = append(queryMods,
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(columns...),
	)

	rows, err := bob.All(ctx, w.tx, psql.Update(queryMods...), scan.StructMapper[*User]())
	if err != nil {
		return nil, translateWriteErr("user.Update", err)
	}
	if len(rows) == 0 {
		return nil, bankerr.ErrUserNotFound
	}
	return rows[0], nil
}

// Deactivate marks the user Inactive. There is no hard delete: accounts and
// ledger entries keep referencing the row.
func (w *Writer) Deactivate(ctx context.Context, id int64) error {
	q := psql.Update(
		um.Table(TableName),
		um.SetCol("status").ToArg(StatusInactive),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	res, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return fmt.Errorf("user.Deactivate: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user.Deactivate: %w", err)
	}
	if affected == 0 {
		return bankerr.ErrUserNotFound
	}
	return nil
}

func translateWriteErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return bankerr.ErrDuplicateUser
	}
	return fmt.Errorf("%s: %w", op, err)
}
