// Package bankerr holds the error values shared by storage, actions,
// services and handlers. Callers compare with errors.Is.
package bankerr

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrAccountNotFound     = errors.New("account not found")
	ErrDestinationNotFound = errors.New("destination account not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("admin access required")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrTransferFailed      = errors.New("transfer failed")

	ErrUserNotFound           = errors.New("user not found")
	ErrDuplicateUser          = errors.New("username or email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrAccountNumberExhausted = errors.New("could not allocate a unique account number")
)

// IsDomain reports whether err is one of the errors above, as opposed to a
// driver or infrastructure failure.
func IsDomain(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var domainErrors = []error{
	ErrInvalidAmount,
	ErrAccountNotFound,
	ErrDestinationNotFound,
	ErrUnauthorized,
	ErrForbidden,
	ErrInsufficientFunds,
	ErrTransferFailed,
	ErrUserNotFound,
	ErrDuplicateUser,
	ErrInvalidCredentials,
	ErrInvalidInput,
	ErrAccountNumberExhausted,
}
