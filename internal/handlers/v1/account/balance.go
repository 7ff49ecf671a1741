package account

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/service"
)

// BalanceChangeInput is the Huma input for a deposit or withdrawal.
type BalanceChangeInput struct {
	AccountPathInput
	Body struct {
		Amount      string `json:"amount" required:"true" doc:"Positive decimal amount, at most two decimal places"`
		Description string `json:"description,omitempty" maxLength:"100" doc:"Ledger description"`
	}
}

// LedgerEntry is the ledger entry a deposit or withdrawal produced.
type LedgerEntry struct {
	ID          int64  `json:"id" doc:"Transaction id"`
	AccountID   int64  `json:"account_id" doc:"Account id"`
	Type        string `json:"transaction_type" doc:"DEPOSIT or WITHDRAW"`
	Amount      string `json:"amount" doc:"Decimal amount"`
	Currency    string `json:"currency" doc:"Currency symbol"`
	Description string `json:"description" doc:"Ledger description"`
	CreatedAt   string `json:"created_at" doc:"RFC3339 creation time"`
}

// BalanceChangeOutput is the Huma output for a deposit or withdrawal.
type BalanceChangeOutput struct {
	Status int
	Body   struct {
		Message     string      `json:"message" doc:"Outcome of the request"`
		Transaction LedgerEntry `json:"transaction" doc:"Recorded ledger entry"`
	}
}

type balanceChanger interface {
	Deposit(ctx context.Context, p policy.Principal, id int64, amount, description string) (*service.Transaction, error)
	Withdraw(ctx context.Context, p policy.Principal, id int64, amount, description string) (*service.Transaction, error)
}

// BalanceHandler handles POST /v1/account/{id}/deposit and
// POST /v1/account/{id}/withdraw.
type BalanceHandler struct {
	AccountService balanceChanger
}

func NewBalanceHandler(svc balanceChanger) *BalanceHandler {
	return &BalanceHandler{AccountService: svc}
}

func (h *BalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "deposit",
		Method:        http.MethodPost,
		Path:          "/v1/account/{id}/deposit",
		Summary:       "Deposit into an account",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusCreated,
	}, h.deposit)

	huma.Register(api, huma.Operation{
		OperationID:   "withdraw",
		Method:        http.MethodPost,
		Path:          "/v1/account/{id}/withdraw",
		Summary:       "Withdraw from an account",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusCreated,
	}, h.withdraw)
}

func (h *BalanceHandler) deposit(ctx context.Context, input *BalanceChangeInput) (*BalanceChangeOutput, error) {
	return h.handle(ctx, input, "deposit", h.AccountService.Deposit)
}

func (h *BalanceHandler) withdraw(ctx context.Context, input *BalanceChangeInput) (*BalanceChangeOutput, error) {
	return h.handle(ctx, input, "withdraw", h.AccountService.Withdraw)
}

func (h *BalanceHandler) handle(
	ctx context.Context,
	input *BalanceChangeInput,
	kind string,
	change func(context.Context, policy.Principal, int64, string, string) (*service.Transaction, error),
) (*BalanceChangeOutput, error) {
	logData := logging.GetLogData(ctx)

	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		logData.AddData("accountID", input.ID)
		stopTimer = logData.AddTiming(kind + "Ms")
	}
	entry, err := change(ctx, principal, input.ID, input.Body.Amount, input.Body.Description)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromDomain(err, kind+" failed")
	}

	if logData != nil {
		logData.AddData("transactionID", entry.ID)
	}

	out := &BalanceChangeOutput{Status: http.StatusCreated}
	if kind == "deposit" {
		out.Body.Message = "Deposit successful"
	} else {
		out.Body.Message = "Withdrawal successful"
	}
	out.Body.Transaction = LedgerEntry{
		ID:          entry.ID,
		AccountID:   entry.AccountID,
		Type:        entry.Type,
		Amount:      entry.Amount.StringFixed(2),
		Currency:    entry.Currency,
		Description: entry.Description,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
	}
	return out, nil
}
