package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/policy"
)

type accountDeactivator interface {
	DeactivateAccount(ctx context.Context, p policy.Principal, id int64) error
}

// DeleteAccountHandler handles DELETE /v1/account/{id}. Accounts are
// deactivated, never removed.
type DeleteAccountHandler struct {
	AccountService accountDeactivator
}

func NewDeleteAccountHandler(svc accountDeactivator) *DeleteAccountHandler {
	return &DeleteAccountHandler{AccountService: svc}
}

func (h *DeleteAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-account",
		Method:      http.MethodDelete,
		Path:        "/v1/account/{id}",
		Summary:     "Deactivate an account",
		Description: "Marks the account inactive. Its ledger entries are kept.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *DeleteAccountHandler) handle(ctx context.Context, input *AccountPathInput) (*MessageOutput, error) {
	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("accountID", input.ID)
	}

	if err := h.AccountService.DeactivateAccount(ctx, principal, input.ID); err != nil {
		return nil, apierror.FromDomain(err, "failed to delete account")
	}
	return newMessage("Account deleted"), nil
}
