package transaction

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/service"
)

// TransferBody is the request body for a transfer.
type TransferBody struct {
	SourceAccountID          int64  `json:"source_account_id" doc:"Id of the account to debit"`
	DestinationAccountNumber string `json:"destination_account_number" doc:"Account number to credit"`
	Amount                   string `json:"amount" doc:"Positive decimal amount, at most two decimal places"`
}

// TransferInput is the Huma input for a transfer.
type TransferInput struct {
	Body TransferBody
}

// TransferOutput is the Huma output for a transfer.
type TransferOutput struct {
	Status int
	Body   struct {
		Message     string      `json:"message" doc:"Outcome of the request"`
		Transaction Transaction `json:"transaction" doc:"Recorded ledger entry"`
	}
}

type transferrer interface {
	Transfer(ctx context.Context, p policy.Principal, req service.TransferRequest) (*service.Transaction, error)
}

// TransferHandler handles POST /v1/transfer.
type TransferHandler struct {
	TransferService transferrer
}

func NewTransferHandler(svc transferrer) *TransferHandler {
	return &TransferHandler{TransferService: svc}
}

// Register registers the transfer endpoint with the Huma API.
func (h *TransferHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "transfer",
		Method:        http.MethodPost,
		Path:          "/v1/transfer",
		Summary:       "Transfer money",
		Description:   "Moves money from one of the caller's accounts to the account with the given number.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *TransferHandler) handle(ctx context.Context, input *TransferInput) (*TransferOutput, error) {
	logData := logging.GetLogData(ctx)

	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		logData.AddData("sourceAccountID", input.Body.SourceAccountID)
		stopTimer = logData.AddTiming("transferMs")
	}
	entry, err := h.TransferService.Transfer(ctx, principal, service.TransferRequest{
		SourceAccountID:          input.Body.SourceAccountID,
		DestinationAccountNumber: input.Body.DestinationAccountNumber,
		Amount:                   input.Body.Amount,
	})
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if logData != nil && errors.Is(err, bankerr.ErrTransferFailed) {
			logData.AddData("transferError", err.Error())
		}
		return nil, apierror.FromDomain(err, bankerr.ErrTransferFailed.Error())
	}

	if logData != nil {
		logData.AddData("transactionID", entry.ID)
	}

	out := &TransferOutput{Status: http.StatusCreated}
	out.Body.Message = "Transfer successful"
	out.Body.Transaction = fromService(entry)
	return out, nil
}
