package repository

import (
	"context"
	"errors"
	"go-bank-ledger/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newAccountRepo(t *testing.T) (*AccountRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAccountRepository(db), dbMock
}

func TestLoadAllAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("rebuilds variant fields from the extra column", func(t *testing.T) {
		repo, dbMock := newAccountRepo(t)
		created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"account_number", "holder_name", "account_type", "pin_hash", "balance", "locked", "extra", "created_at"}).
			AddRow("1000000001", "Ada", "savings", []byte("hash"), "150.5000", false, []byte(`{"interest_rate":"0.03","overdraft_limit":"0","lock_period_days":0}`), created).
			AddRow("1000000002", "Bob", "fixed", []byte("hash"), "1000.0000", true, []byte(`{"interest_rate":"0","overdraft_limit":"0","lock_period_days":30}`), created)
		dbMock.ExpectQuery("SELECT account_number, holder_name, account_type, pin_hash, balance, locked, extra, created_at FROM accounts").
			WillReturnRows(rows)

		accounts, err := repo.LoadAllAccounts(ctx)
		assert.NoError(t, err)
		assert.Len(t, accounts, 2)

		savings := accounts[0]
		assert.Equal(t, model.AccountTypeSavings, savings.Type)
		assert.True(t, savings.Balance.Equal(decimal.RequireFromString("150.5")))
		assert.True(t, savings.InterestRate.Equal(decimal.RequireFromString("0.03")))

		fixed := accounts[1]
		assert.True(t, fixed.Locked)
		assert.Equal(t, created.Add(30*24*time.Hour), fixed.MaturityDate)
	})

	t.Run("propagates query errors", func(t *testing.T) {
		repo, dbMock := newAccountRepo(t)
		dbMock.ExpectQuery("SELECT account_number").WillReturnError(errors.New("db down"))

		_, err := repo.LoadAllAccounts(ctx)
		assert.Error(t, err)
	})
}

func TestInsertAccount(t *testing.T) {
	ctx := context.Background()
	repo, dbMock := newAccountRepo(t)

	acct := &model.Account{
		AccountNumber:  "1000000001",
		HolderName:     "Ada",
		Type:           model.AccountTypeCurrent,
		PinHash:        []byte("hash"),
		Balance:        decimal.NewFromInt(100),
		OverdraftLimit: decimal.NewFromInt(500),
		CreatedAt:      time.Now().UTC(),
	}

	dbMock.ExpectExec("INSERT INTO accounts").
		WithArgs("1000000001", "Ada", "current", []byte("hash"), "100", false, sqlmock.AnyArg(), acct.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.InsertAccount(ctx, nil, acct))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestInsertAccountInsideTx(t *testing.T) {
	ctx := context.Background()
	repo, dbMock := newAccountRepo(t)

	acct := &model.Account{
		AccountNumber: "1000000001",
		HolderName:    "Ada",
		Type:          model.AccountTypeBasic,
		PinHash:       []byte("hash"),
		Balance:       decimal.Zero,
		CreatedAt:     time.Now().UTC(),
	}

	dbMock.ExpectBegin()
	dbMock.ExpectExec("INSERT INTO accounts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	tx, err := repo.DB.BeginTx(ctx, nil)
	assert.NoError(t, err)
	assert.NoError(t, repo.InsertAccount(ctx, tx, acct))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestUpdateBalanceAndLock(t *testing.T) {
	ctx := context.Background()
	repo, dbMock := newAccountRepo(t)

	dbMock.ExpectExec("UPDATE accounts SET balance").
		WithArgs("-42.5", true, "1000000001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateBalanceAndLock(ctx, nil, "1000000001", decimal.RequireFromString("-42.5"), true)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestUpdatePinHash(t *testing.T) {
	ctx := context.Background()
	repo, dbMock := newAccountRepo(t)

	dbMock.ExpectExec("UPDATE accounts SET pin_hash").
		WithArgs([]byte("newhash"), "1000000001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdatePinHash(ctx, "1000000001", []byte("newhash")))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAccountNumberExists(t *testing.T) {
	ctx := context.Background()

	t.Run("taken", func(t *testing.T) {
		repo, dbMock := newAccountRepo(t)
		dbMock.ExpectQuery("SELECT 1 FROM accounts").
			WithArgs("1000000001").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		exists, err := repo.AccountNumberExists(ctx, "1000000001")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("free", func(t *testing.T) {
		repo, dbMock := newAccountRepo(t)
		dbMock.ExpectQuery("SELECT 1 FROM accounts").
			WithArgs("1000000001").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

		exists, err := repo.AccountNumberExists(ctx, "1000000001")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("store error", func(t *testing.T) {
		repo, dbMock := newAccountRepo(t)
		dbMock.ExpectQuery("SELECT 1 FROM accounts").
			WithArgs("1000000001").
			WillReturnError(errors.New("db down"))

		_, err := repo.AccountNumberExists(ctx, "1000000001")
		assert.Error(t, err)
	})
}
