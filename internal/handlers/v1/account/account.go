package account

import (
	"time"

	"github.com/carson-networks/bank-server/internal/service"
)

// Account is the API response model for an account.
type Account struct {
	ID            int64  `json:"id" doc:"Account id"`
	Name          string `json:"name" doc:"Account name"`
	AccountNumber string `json:"account_number" doc:"20-digit account number"`
	Balance       string `json:"balance" doc:"Decimal balance"`
	Currency      string `json:"currency" doc:"Currency symbol"`
	Country       string `json:"country,omitempty" doc:"Country of the account"`
	OwnerID       int64  `json:"owner_id" doc:"Id of the owning user"`
	CreatedAt     string `json:"created_at" doc:"RFC3339 creation time"`
}

// AccountPathInput identifies an account in the URL.
type AccountPathInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Account id"`
}

// MessageOutput is a response carrying only a message.
type MessageOutput struct {
	Body struct {
		Message string `json:"message" doc:"Outcome of the request"`
	}
}

// FromService converts a service account to its API model.
func FromService(a *service.Account) Account {
	return Account{
		ID:            a.ID,
		Name:          a.Name,
		AccountNumber: a.Number,
		Balance:       a.Balance.StringFixed(2),
		Currency:      a.Currency,
		Country:       a.Country,
		OwnerID:       a.OwnerID,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

func newMessage(message string) *MessageOutput {
	out := &MessageOutput{}
	out.Body.Message = message
	return out
}
