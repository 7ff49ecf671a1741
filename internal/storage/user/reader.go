package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/bank-server/internal/bankerr"
)

type Reader struct {
	exec bob.Executor
}

var _ IUserReader = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.findOne(ctx, sm.Where(psql.Quote("id").EQ(psql.Arg(id))))
}

func (r *Reader) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, sm.Where(psql.Quote("email").EQ(psql.Arg(email))))
}

func (r *Reader) List(ctx context.Context, filter *UserFilter) ([]*User, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
	}
	if filter != nil {
		if !filter.IncludeInactive {
			queryMods = append(queryMods, sm.Where(psql.Quote("status").EQ(psql.Arg(StatusActive))))
		}
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit+1))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}
	queryMods = append(queryMods, sm.OrderBy(psql.Quote("id")).Asc())

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*User]())
	if err != nil {
		return nil, fmt.Errorf("user.List: %w", err)
	}
	return rows, nil
}

func (r *Reader) findOne(ctx context.Context, mods ...bob.Mod[*dialect.SelectQuery]) (*User, error) {
	queryMods := append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
	}, mods...)

	row, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*User]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bankerr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user.find: %w", err)
	}
	return row, nil
}
