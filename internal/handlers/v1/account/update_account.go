package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/service"
)

// UpdateAccountInput is the Huma input for renaming an account.
type UpdateAccountInput struct {
	AccountPathInput
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"32" doc:"New account name"`
	}
}

// UpdateAccountOutput is the Huma output for renaming an account.
type UpdateAccountOutput struct {
	Body Account
}

type accountRenamer interface {
	RenameAccount(ctx context.Context, p policy.Principal, id int64, name string) (*service.Account, error)
}

// UpdateAccountHandler handles PUT /v1/account/{id}.
type UpdateAccountHandler struct {
	AccountService accountRenamer
}

func NewUpdateAccountHandler(svc accountRenamer) *UpdateAccountHandler {
	return &UpdateAccountHandler{AccountService: svc}
}

func (h *UpdateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-account",
		Method:      http.MethodPut,
		Path:        "/v1/account/{id}",
		Summary:     "Rename an account",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *UpdateAccountHandler) handle(ctx context.Context, input *UpdateAccountInput) (*UpdateAccountOutput, error) {
	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("accountID", input.ID)
	}

	acct, err := h.AccountService.RenameAccount(ctx, principal, input.ID, input.Body.Name)
	if err != nil {
		return nil, apierror.FromDomain(err, "failed to update account")
	}
	return &UpdateAccountOutput{Body: FromService(acct)}, nil
}
