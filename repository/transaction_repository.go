package repository

import (
	"context"
	"database/sql"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the durable-store contract for the
// transaction log. Rows are append-only.
type ITransactionRepository interface {
	InsertTransaction(ctx context.Context, tx *sql.Tx, txn *model.Transaction) error
	LoadTransactions(ctx context.Context, accountNumber string) ([]*model.Transaction, error)
	QueryTransactions(ctx context.Context, accountNumber string, limit int) ([]*model.Transaction, error)
}

type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) InsertTransaction(ctx context.Context, tx *sql.Tx, txn *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"account_number": txn.AccountNumber,
		"type":           txn.Type,
	})
	log.Info("Executing query to insert a new transaction")

	query := `INSERT INTO transactions (id, account_number, type, amount, balance_after, timestamp, description) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, txn.ID, txn.AccountNumber, string(txn.Type),
			txn.Amount.String(), txn.BalanceAfter.String(), txn.Timestamp, txn.Description)
	} else {
		_, err = r.DB.ExecContext(ctx, query, txn.ID, txn.AccountNumber, string(txn.Type),
			txn.Amount.String(), txn.BalanceAfter.String(), txn.Timestamp, txn.Description)
	}
	if err != nil {
		log.WithError(err).Error("Failed to execute insert transaction query")
		return err
	}
	return nil
}

// LoadTransactions returns the full history for an account in chronological
// order. Used at startup to rebuild in-memory state. The seq tiebreaker keeps
// rows written in one operation, such as the four records of a transfer, in
// insertion order.
func (r *TransactionRepository) LoadTransactions(ctx context.Context, accountNumber string) ([]*model.Transaction, error) {
	query := `
		SELECT id, account_number, type, amount, balance_after, timestamp, description
		FROM transactions
		WHERE account_number = $1
		ORDER BY timestamp ASC, seq ASC`
	return r.queryTransactions(ctx, query, accountNumber)
}

// QueryTransactions returns the most recent limit transactions for an
// account, newest first.
func (r *TransactionRepository) QueryTransactions(ctx context.Context, accountNumber string, limit int) ([]*model.Transaction, error) {
	query := `
		SELECT id, account_number, type, amount, balance_after, timestamp, description
		FROM transactions
		WHERE account_number = $1
		ORDER BY timestamp DESC, seq DESC
		LIMIT $2`
	return r.queryTransactions(ctx, query, accountNumber, limit)
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*model.Transaction, error) {
	log := logger.Log.WithField("account_number", args[0])
	log.Info("Executing query for account transactions")

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute transactions query")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var (
			t               model.Transaction
			typeTag         string
			amountStr       string
			balanceAfterStr string
		)
		if err := rows.Scan(&t.ID, &t.AccountNumber, &typeTag, &amountStr, &balanceAfterStr, &t.Timestamp, &t.Description); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		t.Type = model.TransactionType(typeTag)
		if t.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, err
		}
		if t.BalanceAfter, err = decimal.NewFromString(balanceAfterStr); err != nil {
			return nil, err
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}
