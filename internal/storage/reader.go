package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/bank-server/internal/storage/account"
	"github.com/carson-networks/bank-server/internal/storage/transaction"
	"github.com/carson-networks/bank-server/internal/storage/user"
)

type Reader struct {
	Accounts     account.IAccountReader
	Transactions transaction.ITransactionReader
	Users        user.IUserReader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Accounts:     account.NewReader(exec),
		Transactions: transaction.NewReader(exec),
		Users:        user.NewReader(exec),
	}
}
