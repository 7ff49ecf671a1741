package service

import (
	"context"
	"iter"
	"time"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/storage/account"
	"github.com/carson-networks/bank-server/internal/storage/transaction"
)

const (
	defaultLimit      = 20
	statementPageSize = 100
)

// TransactionService reads the ledger.
type TransactionService struct {
	reader *storage.Reader
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(reader *storage.Reader) *TransactionService {
	return &TransactionService{reader: reader}
}

// ListTransactions returns a page of ledger entries using cursor-based
// pagination. With accountID set only that account's entries are listed;
// otherwise admins see the whole ledger and everyone else the entries of
// their active accounts.
func (s *TransactionService) ListTransactions(ctx context.Context, p policy.Principal, accountID *int64, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	accountIDs, err := s.visibleAccounts(ctx, p, accountID)
	if err != nil {
		return nil, nil, err
	}

	limit := defaultLimit
	offset := 0
	var maxCreationTime *time.Time
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
		if !cursor.MaxCreationTime.IsZero() {
			maxCreationTime = &cursor.MaxCreationTime
		}
	}

	filter := &transaction.TransactionFilter{
		AccountIDs:      accountIDs,
		Limit:           limit,
		Offset:          offset,
		MaxCreationTime: maxCreationTime,
	}

	rows, err := s.reader.Transactions.ListForAccounts(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]

		cursorMaxCreationTime := rows[0].CreatedAt
		if maxCreationTime != nil {
			cursorMaxCreationTime = *maxCreationTime
		}

		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}

	convertedTransactions := make([]Transaction, len(rows))
	for i, row := range rows {
		convertedTransactions[i] = transactionFromStorage(row)
	}

	return convertedTransactions, nextCursor, nil
}

// Entries lazily yields every ledger entry touching accountIDs (all entries
// when accountIDs is nil), newest first, fetching pageSize rows at a time.
// The first page fixes the upper creation-time bound at its newest entry, so
// ranging over the sequence again yields the same entries. Iteration stops
// at the first error. The sequence must not be ranged concurrently.
func (s *TransactionService) Entries(ctx context.Context, accountIDs []int64, pageSize int) iter.Seq2[Transaction, error] {
	if pageSize < 1 {
		pageSize = defaultLimit
	}
	var upperBound *time.Time

	return func(yield func(Transaction, error) bool) {
		offset := 0
		for {
			rows, err := s.reader.Transactions.ListForAccounts(ctx, &transaction.TransactionFilter{
				AccountIDs:      accountIDs,
				Limit:           pageSize,
				Offset:          offset,
				MaxCreationTime: upperBound,
			})
			if err != nil {
				yield(Transaction{}, err)
				return
			}
			if upperBound == nil && len(rows) > 0 {
				newest := rows[0].CreatedAt
				upperBound = &newest
			}

			more := len(rows) > pageSize
			if more {
				rows = rows[:pageSize]
			}
			for _, row := range rows {
				if !yield(transactionFromStorage(row), nil) {
					return
				}
			}
			if !more {
				return
			}
			offset += pageSize
		}
	}
}

// Statement returns every entry of one account the principal may read,
// newest first.
func (s *TransactionService) Statement(ctx context.Context, p policy.Principal, accountID int64) ([]Transaction, error) {
	accountIDs, err := s.visibleAccounts(ctx, p, &accountID)
	if err != nil {
		return nil, err
	}

	var entries []Transaction
	for entry, err := range s.Entries(ctx, accountIDs, statementPageSize) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// visibleAccounts resolves which account ids the principal may read
// entries for. A nil result means every account.
func (s *TransactionService) visibleAccounts(ctx context.Context, p policy.Principal, accountID *int64) ([]int64, error) {
	if accountID != nil {
		acct, err := s.reader.Accounts.FindByID(ctx, *accountID)
		if err != nil {
			return nil, err
		}
		if !acct.Active() {
			return nil, bankerr.ErrAccountNotFound
		}
		if err := policy.RequireAccountAccess(p, acct); err != nil {
			return nil, err
		}
		return []int64{acct.ID}, nil
	}

	if p.Admin {
		return nil, nil
	}

	owned, err := s.reader.Accounts.List(ctx, &account.AccountFilter{OwnerID: &p.UserID})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(owned))
	for _, acct := range owned {
		ids = append(ids, acct.ID)
	}
	return ids, nil
}
