package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxnDeposit     TransactionType = "deposit"
	TxnWithdrawal  TransactionType = "withdrawal"
	TxnTransferIn  TransactionType = "transfer_in"
	TxnTransferOut TransactionType = "transfer_out"
	TxnInterest    TransactionType = "interest"
	TxnFee         TransactionType = "fee"
)

// IsCredit reports whether the type increases the balance.
func (t TransactionType) IsCredit() bool {
	return t == TxnDeposit || t == TxnTransferIn || t == TxnInterest
}

// IsDebit reports whether the type decreases the balance.
func (t TransactionType) IsDebit() bool {
	return t == TxnWithdrawal || t == TxnTransferOut || t == TxnFee
}

// Transaction is a single immutable ledger movement. Once appended to an
// account's history it is never mutated or deleted.
type Transaction struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"account_number"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Timestamp     time.Time       `json:"timestamp"`
	Description   string          `json:"description"`
}

// NewTransaction creates a transaction with a fresh ID and the current time.
// The balance-after snapshot is filled in by the account that records it.
func NewTransaction(accountNumber string, txnType TransactionType, amount decimal.Decimal, description string) *Transaction {
	return &Transaction{
		ID:            uuid.NewString(),
		AccountNumber: accountNumber,
		Type:          txnType,
		Amount:        amount,
		Timestamp:     time.Now().UTC(),
		Description:   description,
	}
}

// Signed returns the amount with the sign implied by the type's
// credit/debit classification.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type.IsDebit() {
		return t.Amount.Neg()
	}
	return t.Amount
}
