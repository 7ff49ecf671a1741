package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/handlers/v1/handlertest"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/service"
)

type mockTransferService struct {
	mock.Mock
}

func (m *mockTransferService) Transfer(ctx context.Context, p policy.Principal, req service.TransferRequest) (*service.Transaction, error) {
	args := m.Called(ctx, p, req)
	entry, _ := args.Get(0).(*service.Transaction)
	return entry, args.Error(1)
}

var alice = policy.Principal{UserID: 1, Username: "alice"}

func newTransferAPI(t *testing.T) (humatest.TestAPI, *mockTransferService) {
	t.Helper()
	svc := &mockTransferService{}
	t.Cleanup(func() { svc.AssertExpectations(t) })

	api := handlertest.NewAPI(t, alice)
	NewTransferHandler(svc).Register(api)
	return api, svc
}

var transferBody = map[string]any{
	"source_account_id":          1,
	"destination_account_number": "00000000000000000002",
	"amount":                     "100",
}

var transferRequest = service.TransferRequest{
	SourceAccountID:          1,
	DestinationAccountNumber: "00000000000000000002",
	Amount:                   "100",
}

func TestTransfer_Created(t *testing.T) {
	api, svc := newTransferAPI(t)

	destinationID := int64(2)
	svc.On("Transfer", mock.Anything, alice, transferRequest).Return(&service.Transaction{
		ID:                   11,
		AccountID:            1,
		DestinationAccountID: &destinationID,
		Type:                 "TRANSFER",
		Amount:               decimal.RequireFromString("100"),
		Currency:             "€",
		Description:          "Transfer to 00000000000000000002",
		UserID:               alice.UserID,
		CreatedAt:            time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}, nil)

	resp := api.Post("/v1/transfer", transferBody)
	require.Equal(t, http.StatusCreated, resp.Code)

	var body struct {
		Message     string      `json:"message"`
		Transaction Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Transfer successful", body.Message)
	assert.Equal(t, int64(11), body.Transaction.ID)
	assert.Equal(t, "TRANSFER", body.Transaction.Type)
	assert.Equal(t, "100.00", body.Transaction.Amount)
	require.NotNil(t, body.Transaction.DestinationAccountID)
	assert.Equal(t, int64(2), *body.Transaction.DestinationAccountID)
	assert.Equal(t, "Transfer to 00000000000000000002", body.Transaction.Description)
}

func TestTransfer_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{bankerr.ErrInvalidAmount, http.StatusBadRequest, "invalid amount"},
		{bankerr.ErrInsufficientFunds, http.StatusBadRequest, "insufficient funds"},
		{bankerr.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
		{bankerr.ErrAccountNotFound, http.StatusNotFound, "account not found"},
		{bankerr.ErrDestinationNotFound, http.StatusNotFound, "destination account not found"},
		{fmt.Errorf("%w: %w", bankerr.ErrTransferFailed, context.DeadlineExceeded), http.StatusInternalServerError, "transfer failed"},
	}

	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			api, svc := newTransferAPI(t)
			svc.On("Transfer", mock.Anything, alice, transferRequest).Return(nil, tc.err)

			resp := api.Post("/v1/transfer", transferBody)
			assert.Equal(t, tc.status, resp.Code)
			assert.Equal(t, tc.message, handlertest.ErrorMessage(t, resp))
		})
	}
}

func TestTransfer_MissingField(t *testing.T) {
	api, _ := newTransferAPI(t)

	// Huma schema validation rejects the request before the handler runs.
	resp := api.Post("/v1/transfer", map[string]any{
		"source_account_id": 1,
		"amount":            "100",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
