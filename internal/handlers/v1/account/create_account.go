package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/service"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Name           string `json:"name" minLength:"1" maxLength:"32" doc:"Account name"`
	Currency       string `json:"currency,omitempty" maxLength:"3" doc:"Currency symbol, defaults to €"`
	Country        string `json:"country,omitempty" maxLength:"32" doc:"Country of the account"`
	InitialBalance string `json:"initial_balance,omitempty" doc:"Opening balance (e.g. '0' or '1234.56'), defaults to 0"`
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   Account
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, p policy.Principal, create service.AccountCreate) (*service.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-account",
		Method:        http.MethodPost,
		Path:          "/v1/account",
		Summary:       "Open an account",
		Description:   "Opens an account for the caller under a newly generated account number.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateAccountInput(input *CreateAccountInput) (service.AccountCreate, error) {
	initialBalance := decimal.Zero
	if input.Body.InitialBalance != "" {
		var err error
		initialBalance, err = decimal.NewFromString(input.Body.InitialBalance)
		if err != nil || initialBalance.IsNegative() {
			return service.AccountCreate{}, apierror.New(http.StatusBadRequest, "invalid initial_balance")
		}
	}

	return service.AccountCreate{
		Name:           input.Body.Name,
		Currency:       input.Body.Currency,
		Country:        input.Body.Country,
		InitialBalance: initialBalance,
	}, nil
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	create, err := parseCreateAccountInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createAccountMs")
	}
	acct, err := h.AccountService.CreateAccount(ctx, principal, create)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromDomain(err, "failed to create account")
	}

	if logData != nil {
		logData.AddData("accountID", acct.ID)
	}

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   FromService(acct),
	}, nil
}
