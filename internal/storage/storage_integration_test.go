package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/operator"
	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/storage/account"
	"github.com/carson-networks/bank-server/internal/storage/transaction"
)

var (
	containerOnce sync.Once
	container     *postgres.PostgresContainer
	containerDSN  string
	containerErr  error
	userSeq       atomic.Int64
	runID         = time.Now().UnixNano() % 1_000_000
)

func TestMain(m *testing.M) {
	code := m.Run()
	if container != nil {
		_ = testcontainers.TerminateContainer(container)
	}
	os.Exit(code)
}

// newTestStorage returns storage over a migrated Postgres container shared
// by every test in the package. Tests isolate themselves by creating their
// own users and accounts.
func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	containerOnce.Do(func() {
		ctx := context.Background()
		container, containerErr = postgres.Run(ctx, "postgres:16-alpine",
			postgres.WithDatabase("bank"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("testpassword"),
			postgres.BasicWaitStrategies(),
		)
		if containerErr != nil {
			return
		}
		containerDSN, containerErr = container.ConnectionString(ctx, "sslmode=disable")
		if containerErr != nil {
			return
		}

		db, err := sql.Open("postgres", containerDSN)
		if err != nil {
			containerErr = err
			return
		}
		m, err := storage.NewMigrator(db)
		if err != nil {
			containerErr = err
			return
		}
		defer m.Close()

		logger := logrus.New()
		logger.SetLevel(logrus.WarnLevel)
		containerErr = storage.MigrateUp(m, logger)
	})
	require.NoError(t, containerErr)

	db, err := sql.Open("postgres", containerDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.New(db)
}

func newDelegator(t *testing.T, s *storage.Storage, workers int) *operator.OperatorDelegator {
	t.Helper()
	d := operator.NewOperatorDelegator(s, workers, 100)
	d.Start()
	t.Cleanup(d.Stop)
	return d
}

func registerUser(t *testing.T, d *operator.OperatorDelegator) policy.Principal {
	t.Helper()
	n := userSeq.Add(1)
	action := &actions.RegisterUser{
		Username:     fmt.Sprintf("user%d_%d", runID, n),
		Email:        fmt.Sprintf("user%d_%d@example.com", runID, n),
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, d.Process(context.Background(), action))
	return policy.Principal{UserID: action.Result.ID, Username: action.Result.Username}
}

func openAccount(t *testing.T, d *operator.OperatorDelegator, owner policy.Principal, balance int64) *account.Account {
	t.Helper()
	action := &actions.CreateAccount{
		OwnerID:        owner.UserID,
		Name:           "Main",
		Country:        "NL",
		InitialBalance: decimal.NewFromInt(balance),
	}
	require.NoError(t, d.Process(context.Background(), action))
	return action.Result
}

func balanceOf(t *testing.T, s *storage.Storage, id int64) decimal.Decimal {
	t.Helper()
	acct, err := s.Reader.Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	return acct.Balance
}

func transfersFrom(t *testing.T, s *storage.Storage, id int64) []*transaction.Transaction {
	t.Helper()
	rows, err := s.Reader.Transactions.ListForAccounts(context.Background(), &transaction.TransactionFilter{AccountIDs: []int64{id}})
	require.NoError(t, err)

	var out []*transaction.Transaction
	for _, row := range rows {
		if row.Type == transaction.TypeTransfer && row.AccountID == id {
			out = append(out, row)
		}
	}
	return out
}

func TestConcurrentTransfers_NeverOverdraw(t *testing.T) {
	s := newTestStorage(t)
	d := newDelegator(t, s, 8)

	alice := registerUser(t, d)
	bob := registerUser(t, d)
	source := openAccount(t, d, alice, 100)
	destination := openAccount(t, d, bob, 0)

	var succeeded, rejected atomic.Int64
	g, ctx := errgroup.WithContext(context.Background())
	for range 25 {
		g.Go(func() error {
			err := d.Process(ctx, &actions.Transfer{
				Principal:         alice,
				SourceAccountID:   source.ID,
				DestinationNumber: destination.Number,
				Amount:            decimal.NewFromInt(10),
			})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, bankerr.ErrInsufficientFunds):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(10), succeeded.Load())
	assert.Equal(t, int64(15), rejected.Load())
	assert.True(t, balanceOf(t, s, source.ID).IsZero())
	assert.True(t, balanceOf(t, s, destination.ID).Equal(decimal.NewFromInt(100)))
	assert.Len(t, transfersFrom(t, s, source.ID), 10)
}

func TestOpposingTransfers_ConserveTotal(t *testing.T) {
	s := newTestStorage(t)
	d := newDelegator(t, s, 8)

	owner := registerUser(t, d)
	a := openAccount(t, d, owner, 50)
	b := openAccount(t, d, owner, 50)

	var g errgroup.Group
	for i := range 40 {
		from, to := a, b
		if i%2 == 1 {
			from, to = b, a
		}
		g.Go(func() error {
			err := d.Process(context.Background(), &actions.Transfer{
				Principal:         owner,
				SourceAccountID:   from.ID,
				DestinationNumber: to.Number,
				Amount:            decimal.NewFromInt(5),
			})
			if err != nil && !errors.Is(err, bankerr.ErrInsufficientFunds) {
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	total := balanceOf(t, s, a.ID).Add(balanceOf(t, s, b.ID))
	assert.True(t, total.Equal(decimal.NewFromInt(100)), "total was %s", total)
}

// failAfter runs the wrapped action and then fails, so everything it wrote
// must be rolled back.
type failAfter struct {
	actions.IAction
	inner actions.IAction
}

var errInjected = errors.New("injected failure")

func (f *failAfter) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := f.inner.Perform(ctx, writer); err != nil {
		return err
	}
	return errInjected
}

func TestTransfer_FailureLeavesNoTrace(t *testing.T) {
	s := newTestStorage(t)
	d := newDelegator(t, s, 2)

	owner := registerUser(t, d)
	source := openAccount(t, d, owner, 30)
	destination := openAccount(t, d, owner, 0)

	err := d.Process(context.Background(), &failAfter{inner: &actions.Transfer{
		Principal:         owner,
		SourceAccountID:   source.ID,
		DestinationNumber: destination.Number,
		Amount:            decimal.NewFromInt(20),
	}})
	require.ErrorIs(t, err, errInjected)

	assert.True(t, balanceOf(t, s, source.ID).Equal(decimal.NewFromInt(30)))
	assert.True(t, balanceOf(t, s, destination.ID).IsZero())
	assert.Empty(t, transfersFrom(t, s, source.ID))
}

func TestLedger_NewestFirstAndVisibleToBothSides(t *testing.T) {
	s := newTestStorage(t)
	d := newDelegator(t, s, 1)
	ctx := context.Background()

	alice := registerUser(t, d)
	bob := registerUser(t, d)
	source := openAccount(t, d, alice, 0)
	destination := openAccount(t, d, bob, 0)

	require.NoError(t, d.Process(ctx, &actions.Deposit{Principal: alice, AccountID: source.ID, Amount: decimal.NewFromInt(40)}))
	require.NoError(t, d.Process(ctx, &actions.Withdraw{Principal: alice, AccountID: source.ID, Amount: decimal.NewFromInt(5)}))
	require.NoError(t, d.Process(ctx, &actions.Transfer{
		Principal:         alice,
		SourceAccountID:   source.ID,
		DestinationNumber: destination.Number,
		Amount:            decimal.NewFromInt(15),
	}))

	rows, err := s.Reader.Transactions.ListForAccounts(ctx, &transaction.TransactionFilter{AccountIDs: []int64{source.ID}})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, transaction.TypeTransfer, rows[0].Type)
	assert.Equal(t, transaction.TypeWithdraw, rows[1].Type)
	assert.Equal(t, transaction.TypeDeposit, rows[2].Type)
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].CreatedAt.After(rows[i-1].CreatedAt))
	}

	received, err := s.Reader.Transactions.ListForAccounts(ctx, &transaction.TransactionFilter{AccountIDs: []int64{destination.ID}})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, rows[0].ID, received[0].ID)
	require.NotNil(t, received[0].DestinationAccountID)
	assert.Equal(t, destination.ID, *received[0].DestinationAccountID)
	assert.Equal(t, "Transfer to "+destination.Number, received[0].Description)

	assert.True(t, balanceOf(t, s, source.ID).Equal(decimal.NewFromInt(20)))
	assert.True(t, balanceOf(t, s, destination.ID).Equal(decimal.NewFromInt(15)))
}

func TestDeactivate_IdempotentAndHiddenFromListings(t *testing.T) {
	s := newTestStorage(t)
	d := newDelegator(t, s, 1)
	ctx := context.Background()

	owner := registerUser(t, d)
	kept := openAccount(t, d, owner, 0)
	closed := openAccount(t, d, owner, 10)

	require.NoError(t, d.Process(ctx, &actions.DeactivateAccount{Principal: owner, AccountID: closed.ID}))
	require.NoError(t, d.Process(ctx, &actions.DeactivateAccount{Principal: owner, AccountID: closed.ID}))

	listed, err := s.Reader.Accounts.List(ctx, &account.AccountFilter{OwnerID: &owner.UserID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, kept.ID, listed[0].ID)

	all, err := s.Reader.Accounts.List(ctx, &account.AccountFilter{OwnerID: &owner.UserID, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	err = d.Process(ctx, &actions.Transfer{
		Principal:         owner,
		SourceAccountID:   kept.ID,
		DestinationNumber: closed.Number,
		Amount:            decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, bankerr.ErrDestinationNotFound)

	err = d.Process(ctx, &actions.Transfer{
		Principal:         owner,
		SourceAccountID:   closed.ID,
		DestinationNumber: kept.Number,
		Amount:            decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, bankerr.ErrAccountNotFound)
}

func TestUsers_DuplicateRejected(t *testing.T) {
	s := newTestStorage(t)
	d := newDelegator(t, s, 1)
	ctx := context.Background()

	first := &actions.RegisterUser{
		Username:     fmt.Sprintf("dup%d", runID),
		Email:        fmt.Sprintf("dup%d@example.com", runID),
		PasswordHash: "x",
	}
	require.NoError(t, d.Process(ctx, first))

	second := &actions.RegisterUser{Username: first.Username, Email: "other" + first.Email, PasswordHash: "x"}
	assert.ErrorIs(t, d.Process(ctx, second), bankerr.ErrDuplicateUser)

	u, err := s.Reader.Users.FindByID(ctx, first.Result.ID)
	require.NoError(t, err)
	assert.True(t, u.Active())
}
