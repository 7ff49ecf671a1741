package policy

import (
	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/storage/account"
)

// Principal is the authenticated user a request acts on behalf of.
type Principal struct {
	UserID   int64
	Username string
	Admin    bool
}

// CanAccessAccount reports whether p may read or mutate acct: the owner and
// admins may, nobody else.
func CanAccessAccount(p Principal, acct *account.Account) bool {
	if acct == nil {
		return false
	}
	return acct.OwnerID == p.UserID || p.Admin
}

// RequireAccountAccess is CanAccessAccount as an error.
func RequireAccountAccess(p Principal, acct *account.Account) error {
	if !CanAccessAccount(p, acct) {
		return bankerr.ErrUnauthorized
	}
	return nil
}

// RequireAdmin fails with ErrForbidden unless p is an admin.
func RequireAdmin(p Principal) error {
	if !p.Admin {
		return bankerr.ErrForbidden
	}
	return nil
}
