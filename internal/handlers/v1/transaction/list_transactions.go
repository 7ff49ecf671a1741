package transaction

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

const defaultListLimit = 20

// ListTransactionsCursor represents a pagination cursor in request and response bodies.
type ListTransactionsCursor struct {
	Position        int    `json:"position" minimum:"0" doc:"Numeric offset position for the next page"`
	Limit           int    `json:"limit" minimum:"1" maximum:"100" doc:"Page size"`
	MaxCreationTime string `json:"max_creation_time" format:"date-time" doc:"Upper creation-time bound fixed by the first page"`
}

// ListTransactionsBody is the request body for listing transactions.
type ListTransactionsBody struct {
	AccountID *int64                  `json:"account_id,omitempty" minimum:"1" doc:"Only list entries of this account"`
	Limit     int                     `json:"limit,omitempty" minimum:"0" maximum:"100" doc:"Page size for the first page, default 20"`
	Cursor    *ListTransactionsCursor `json:"cursor,omitempty" doc:"Cursor returned by the previous page"`
}

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	Body ListTransactionsBody
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction           `json:"transactions" doc:"Page of ledger entries, newest first"`
	NextCursor   *ListTransactionsCursor `json:"next_cursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

type transactionLister interface {
	ListTransactions(ctx context.Context, p policy.Principal, accountID *int64, cursor *service.TransactionCursor) ([]service.Transaction, *service.TransactionCursor, error)
}

// ListTransactionsHandler handles POST /v1/transaction/list.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/list",
		Summary:     "List transactions",
		Description: "Returns ledger entries touching the caller's accounts, newest first.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseCursor(body *ListTransactionsBody) (*service.TransactionCursor, error) {
	if body.Cursor == nil {
		limit := body.Limit
		if limit == 0 {
			limit = defaultListLimit
		}
		return &service.TransactionCursor{Limit: limit}, nil
	}

	maxCreationTime, err := time.Parse(time.RFC3339Nano, body.Cursor.MaxCreationTime)
	if err != nil {
		return nil, apierror.New(http.StatusBadRequest, "invalid cursor")
	}
	return &service.TransactionCursor{
		Position:        body.Cursor.Position,
		Limit:           body.Cursor.Limit,
		MaxCreationTime: maxCreationTime,
	}, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)

	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := parseCursor(&input.Body)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	entries, next, err := h.TransactionService.ListTransactions(ctx, principal, input.Body.AccountID, cursor)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromDomain(err, "failed to list transactions")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(entries))
	}

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(entries)),
	}
	for i := range entries {
		resp.Transactions[i] = fromService(&entries[i])
	}
	if next != nil {
		resp.NextCursor = &ListTransactionsCursor{
			Position:        next.Position,
			Limit:           next.Limit,
			MaxCreationTime: next.MaxCreationTime.Format(time.RFC3339Nano),
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
