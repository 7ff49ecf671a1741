package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/storage/account"
)

// IAction is one unit of work run inside a single storage transaction.
// Returning an error rolls the whole transaction back.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// lockAccessibleAccount locks the account row and checks that p may act on
// it. Inactive accounts are reported as missing.
func lockAccessibleAccount(ctx context.Context, writer *storage.Writer, p policy.Principal, id int64) (*account.Account, error) {
	acct, err := writer.Account.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acct.Active() {
		return nil, bankerr.ErrAccountNotFound
	}
	if err := policy.RequireAccountAccess(p, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, bankerr.ErrAccountNotFound)
}
