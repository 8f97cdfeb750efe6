package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the durable-store contract for accounts.
// Write methods take a *sql.Tx so the ledger can group the account update
// with its transaction rows in one database transaction; a nil tx executes
// against the pool directly.
type IAccountRepository interface {
	LoadAllAccounts(ctx context.Context) ([]*model.Account, error)
	InsertAccount(ctx context.Context, tx *sql.Tx, account *model.Account) error
	UpdateBalanceAndLock(ctx context.Context, tx *sql.Tx, accountNumber string, balance decimal.Decimal, locked bool) error
	UpdatePinHash(ctx context.Context, accountNumber string, hash []byte) error
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)
}

// variantParams is the JSONB shape of the accounts.extra column. The lock
// period is stored in days; the maturity date is derived from created_at.
type variantParams struct {
	InterestRate   decimal.Decimal `json:"interest_rate"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
	LockPeriodDays int             `json:"lock_period_days"`
}

type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *AccountRepository) exec(tx *sql.Tx) execer {
	if tx != nil {
		return tx
	}
	return r.DB
}

// LoadAllAccounts reads every account row and rebuilds the typed variant
// fields from the extra column. Called once at startup.
func (r *AccountRepository) LoadAllAccounts(ctx context.Context) ([]*model.Account, error) {
	log := logger.Log
	log.Info("Executing query to load all accounts")

	query := `SELECT account_number, holder_name, account_type, pin_hash, balance, locked, extra, created_at FROM accounts`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.WithError(err).Error("Failed to execute load all accounts query")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var (
			acc        model.Account
			typeTag    string
			balanceStr string
			extraRaw   []byte
		)
		if err := rows.Scan(&acc.AccountNumber, &acc.HolderName, &typeTag, &acc.PinHash, &balanceStr, &acc.Locked, &extraRaw, &acc.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		acc.Type = model.AccountType(typeTag)
		if acc.Balance, err = decimal.NewFromString(balanceStr); err != nil {
			log.WithError(err).Error("Failed to parse account balance")
			return nil, err
		}

		var extra variantParams
		if len(extraRaw) > 0 {
			if err := json.Unmarshal(extraRaw, &extra); err != nil {
				log.WithError(err).Error("Failed to decode account variant params")
				return nil, err
			}
		}
		acc.InterestRate = extra.InterestRate
		acc.OverdraftLimit = extra.OverdraftLimit
		if acc.Type == model.AccountTypeFixedDeposit {
			acc.MaturityDate = acc.CreatedAt.Add(time.Duration(extra.LockPeriodDays) * 24 * time.Hour)
		}

		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}

// InsertAccount adds a new account row.
func (r *AccountRepository) InsertAccount(ctx context.Context, tx *sql.Tx, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": account.AccountNumber,
		"account_type":   account.Type,
	})
	log.Info("Executing query to insert a new account")

	extra := variantParams{
		InterestRate:   account.InterestRate,
		OverdraftLimit: account.OverdraftLimit,
	}
	if account.Type == model.AccountTypeFixedDeposit {
		extra.LockPeriodDays = int(account.MaturityDate.Sub(account.CreatedAt).Hours() / 24)
	}
	extraRaw, err := json.Marshal(extra)
	if err != nil {
		return err
	}

	query := `INSERT INTO accounts (account_number, holder_name, account_type, pin_hash, balance, locked, extra, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.exec(tx).ExecContext(ctx, query,
		account.AccountNumber, account.HolderName, string(account.Type), account.PinHash,
		account.Balance.String(), account.Locked, extraRaw, account.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute insert account query")
		return err
	}
	return nil
}

// UpdateBalanceAndLock persists the mutable account state after an operation.
func (r *AccountRepository) UpdateBalanceAndLock(ctx context.Context, tx *sql.Tx, accountNumber string, balance decimal.Decimal, locked bool) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"locked":         locked,
	})
	log.Info("Executing query to update account balance and lock state")

	query := `UPDATE accounts SET balance = $1, locked = $2 WHERE account_number = $3`
	_, err := r.exec(tx).ExecContext(ctx, query, balance.String(), locked, accountNumber)
	if err != nil {
		log.WithError(err).Error("Failed to execute update balance query")
		return err
	}
	return nil
}

// UpdatePinHash replaces the stored PIN hash for an account.
func (r *AccountRepository) UpdatePinHash(ctx context.Context, accountNumber string, hash []byte) error {
	log := logger.Log.WithField("account_number", accountNumber)
	log.Info("Executing query to update account PIN hash")

	query := `UPDATE accounts SET pin_hash = $1 WHERE account_number = $2`
	_, err := r.DB.ExecContext(ctx, query, hash, accountNumber)
	if err != nil {
		log.WithError(err).Error("Failed to execute update PIN hash query")
		return err
	}
	return nil
}

// AccountNumberExists reports whether a candidate account number is taken.
func (r *AccountRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	query := `SELECT 1 FROM accounts WHERE account_number = $1 LIMIT 1`
	var one int
	err := r.DB.QueryRowContext(ctx, query, accountNumber).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("account_number", accountNumber).Error("Failed to execute account exists query")
		return false, err
	}
	return true, nil
}
