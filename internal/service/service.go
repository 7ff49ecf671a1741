package service

import (
	"context"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/storage"
)

// ActionProcessor runs a write action inside one storage transaction.
type ActionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Account     *AccountService
	Transfer    *TransferService
	Transaction *TransactionService
	User        *UserService
}

// Options tune the services beyond their dependencies.
type Options struct {
	MaxAccountNumberAttempts int
}

// NewService wires every service to the same reader and action processor.
func NewService(reader *storage.Reader, processor ActionProcessor, tokens *auth.TokenIssuer, opts Options) *Service {
	return &Service{
		Account:     NewAccountService(reader, processor, opts.MaxAccountNumberAttempts),
		Transfer:    NewTransferService(processor),
		Transaction: NewTransactionService(reader),
		User:        NewUserService(reader, processor, tokens, opts.MaxAccountNumberAttempts),
	}
}
