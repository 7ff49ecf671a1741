// Package apierror maps domain errors to HTTP responses with the body
// {"error": "<message>"}.
package apierror

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-server/internal/bankerr"
)

// Error is a huma.StatusError whose JSON form is {"error": Message}.
type Error struct {
	status  int
	Message string `json:"error" doc:"Human readable error message"`
}

var _ huma.StatusError = (*Error)(nil)

func New(status int, message string) *Error {
	return &Error{status: status, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) GetStatus() int {
	return e.status
}

var statusByError = []struct {
	err    error
	status int
}{
	{bankerr.ErrInvalidAmount, http.StatusBadRequest},
	{bankerr.ErrInsufficientFunds, http.StatusBadRequest},
	{bankerr.ErrInvalidInput, http.StatusBadRequest},
	{bankerr.ErrInvalidCredentials, http.StatusUnauthorized},
	{bankerr.ErrUnauthorized, http.StatusForbidden},
	{bankerr.ErrForbidden, http.StatusForbidden},
	{bankerr.ErrAccountNotFound, http.StatusNotFound},
	{bankerr.ErrDestinationNotFound, http.StatusNotFound},
	{bankerr.ErrUserNotFound, http.StatusNotFound},
	{bankerr.ErrDuplicateUser, http.StatusConflict},
	{bankerr.ErrTransferFailed, http.StatusInternalServerError},
	{bankerr.ErrAccountNumberExhausted, http.StatusServiceUnavailable},
}

// FromDomain converts err into an Error. Known domain errors keep their own
// message; anything else becomes a 500 carrying fallback, so driver detail
// never reaches the client.
func FromDomain(err error, fallback string) *Error {
	for _, entry := range statusByError {
		if errors.Is(err, entry.err) {
			return New(entry.status, entry.err.Error())
		}
	}
	return New(http.StatusInternalServerError, fallback)
}

// Write sends an Error from a huma middleware, where returning one is not
// possible.
func Write(ctx huma.Context, status int, message string) {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetStatus(status)
	_ = json.NewEncoder(ctx.BodyWriter()).Encode(New(status, message))
}
