package transaction

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

// StatementInput identifies the account whose statement is requested.
type StatementInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Account id"`
}

// StatementOutput carries every ledger entry of one account.
type StatementOutput struct {
	Body struct {
		Transactions []Transaction `json:"transactions" doc:"All entries of the account, newest first"`
	}
}

type statementReader interface {
	Statement(ctx context.Context, p policy.Principal, accountID int64) ([]service.Transaction, error)
}

// StatementHandler handles GET /v1/account/{id}/statement.
type StatementHandler struct {
	TransactionService statementReader
}

func NewStatementHandler(svc statementReader) *StatementHandler {
	return &StatementHandler{TransactionService: svc}
}

func (h *StatementHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "account-statement",
		Method:      http.MethodGet,
		Path:        "/v1/account/{id}/statement",
		Summary:     "Account statement",
		Description: "Returns the full ledger of one account without pagination.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *StatementHandler) handle(ctx context.Context, input *StatementInput) (*StatementOutput, error) {
	logData := logging.GetLogData(ctx)

	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("statementMs")
	}
	entries, err := h.TransactionService.Statement(ctx, principal, input.ID)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromDomain(err, "failed to build statement")
	}

	out := &StatementOutput{}
	out.Body.Transactions = make([]Transaction, len(entries))
	for i := range entries {
		out.Body.Transactions[i] = fromService(&entries[i])
	}
	return out, nil
}
