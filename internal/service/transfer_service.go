package service

import (
	"context"
	"fmt"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/policy"
)

// TransferService moves money between accounts.
type TransferService struct {
	processor ActionProcessor
}

func NewTransferService(processor ActionProcessor) *TransferService {
	return &TransferService{processor: processor}
}

// Transfer debits the source account, credits the destination and records
// the ledger entry as one atomic unit. Domain failures come back as their
// bankerr value; any other failure is rolled back and reported as
// ErrTransferFailed wrapping the cause.
func (s *TransferService) Transfer(ctx context.Context, p policy.Principal, req TransferRequest) (*Transaction, error) {
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	action := &actions.Transfer{
		Principal:         p,
		SourceAccountID:   req.SourceAccountID,
		DestinationNumber: req.DestinationAccountNumber,
		Amount:            amount,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		if bankerr.IsDomain(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", bankerr.ErrTransferFailed, err)
	}

	entry := transactionFromStorage(action.Result)
	return &entry, nil
}
