package service

import (
	"context"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/storage/account"
)

const defaultAccountLimit = 20

// AccountService handles account business logic.
type AccountService struct {
	reader            *storage.Reader
	processor         ActionProcessor
	maxNumberAttempts int
}

// NewAccountService creates a new AccountService.
func NewAccountService(reader *storage.Reader, processor ActionProcessor, maxNumberAttempts int) *AccountService {
	return &AccountService{
		reader:            reader,
		processor:         processor,
		maxNumberAttempts: maxNumberAttempts,
	}
}

// CreateAccount opens an account owned by the principal.
func (s *AccountService) CreateAccount(ctx context.Context, p policy.Principal, create AccountCreate) (*Account, error) {
	action := &actions.CreateAccount{
		OwnerID:           p.UserID,
		Name:              create.Name,
		Currency:          create.Currency,
		Country:           create.Country,
		InitialBalance:    create.InitialBalance,
		MaxNumberAttempts: s.maxNumberAttempts,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	acct := accountFromStorage(action.Result)
	return &acct, nil
}

// GetAccount returns an active account the principal may access.
func (s *AccountService) GetAccount(ctx context.Context, p policy.Principal, id int64) (*Account, error) {
	row, err := s.reader.Accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !row.Active() {
		return nil, bankerr.ErrAccountNotFound
	}
	if err := policy.RequireAccountAccess(p, row); err != nil {
		return nil, err
	}
	acct := accountFromStorage(row)
	return &acct, nil
}

// ListAccounts returns a page of active accounts using cursor pagination.
// Admins see every owner's accounts, everyone else only their own.
func (s *AccountService) ListAccounts(ctx context.Context, p policy.Principal, cursor *AccountCursor) ([]Account, *AccountCursor, error) {
	limit := defaultAccountLimit
	offset := 0
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
	}

	filter := &account.AccountFilter{
		Limit:  limit,
		Offset: offset,
	}
	if !p.Admin {
		filter.OwnerID = &p.UserID
	}

	accounts, err := s.reader.Accounts.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(accounts) == 0 {
		return nil, nil, nil
	}

	var nextCursor *AccountCursor
	if len(accounts) > limit {
		accounts = accounts[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	convertedAccounts := make([]Account, len(accounts))
	for i, row := range accounts {
		convertedAccounts[i] = accountFromStorage(row)
	}

	return convertedAccounts, nextCursor, nil
}

// RenameAccount changes the display name of an account.
func (s *AccountService) RenameAccount(ctx context.Context, p policy.Principal, id int64, name string) (*Account, error) {
	action := &actions.RenameAccount{Principal: p, AccountID: id, Name: name}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	acct := accountFromStorage(action.Result)
	return &acct, nil
}

// DeactivateAccount soft deletes an account.
func (s *AccountService) DeactivateAccount(ctx context.Context, p policy.Principal, id int64) error {
	return s.processor.Process(ctx, &actions.DeactivateAccount{Principal: p, AccountID: id})
}

// Deposit credits amount to the account and returns the ledger entry.
func (s *AccountService) Deposit(ctx context.Context, p policy.Principal, id int64, amount, description string) (*Transaction, error) {
	value, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	action := &actions.Deposit{Principal: p, AccountID: id, Amount: value, Description: description}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	entry := transactionFromStorage(action.Result)
	return &entry, nil
}

// Withdraw debits amount from the account and returns the ledger entry.
func (s *AccountService) Withdraw(ctx context.Context, p policy.Principal, id int64, amount, description string) (*Transaction, error) {
	value, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	action := &actions.Withdraw{Principal: p, AccountID: id, Amount: value, Description: description}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	entry := transactionFromStorage(action.Result)
	return &entry, nil
}
