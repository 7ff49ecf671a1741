package transaction

import (
	"time"

	"github.com/carson-networks/bank-server/internal/service"
)

// Transaction is the API response model for a ledger entry.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID                   int64  `json:"id" doc:"Transaction id"`
	AccountID            int64  `json:"account_id" doc:"Account the entry belongs to"`
	DestinationAccountID *int64 `json:"sent_account_id,omitempty" doc:"Destination account, transfers only"`
	Type                 string `json:"transaction_type" doc:"DEPOSIT, WITHDRAW or TRANSFER"`
	Amount               string `json:"amount" doc:"Decimal amount"`
	Currency             string `json:"currency" doc:"Currency symbol"`
	Description          string `json:"description" doc:"Ledger description"`
	UserID               int64  `json:"user_id" doc:"User who made the change"`
	CreatedAt            string `json:"created_at" doc:"RFC3339 creation time"`
}

func fromService(t *service.Transaction) Transaction {
	return Transaction{
		ID:                   t.ID,
		AccountID:            t.AccountID,
		DestinationAccountID: t.DestinationAccountID,
		Type:                 t.Type,
		Amount:               t.Amount.StringFixed(2),
		Currency:             t.Currency,
		Description:          t.Description,
		UserID:               t.UserID,
		CreatedAt:            t.CreatedAt.Format(time.RFC3339),
	}
}
