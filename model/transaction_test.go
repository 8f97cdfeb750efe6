package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionTypeClassification(t *testing.T) {
	credits := []TransactionType{TxnDeposit, TxnTransferIn, TxnInterest}
	debits := []TransactionType{TxnWithdrawal, TxnTransferOut, TxnFee}

	for _, typ := range credits {
		assert.True(t, typ.IsCredit(), "%s should be a credit", typ)
		assert.False(t, typ.IsDebit(), "%s should not be a debit", typ)
	}
	for _, typ := range debits {
		assert.True(t, typ.IsDebit(), "%s should be a debit", typ)
		assert.False(t, typ.IsCredit(), "%s should not be a credit", typ)
	}
}

func TestTransactionSigned(t *testing.T) {
	amount := decimal.NewFromInt(25)

	deposit := NewTransaction("1000000001", TxnDeposit, amount, "")
	assert.True(t, deposit.Signed().Equal(amount))

	fee := NewTransaction("1000000001", TxnFee, amount, "")
	assert.True(t, fee.Signed().Equal(amount.Neg()))
}

func TestNewTransactionAssignsUniqueIDs(t *testing.T) {
	a := NewTransaction("1000000001", TxnDeposit, decimal.NewFromInt(1), "")
	b := NewTransaction("1000000001", TxnDeposit, decimal.NewFromInt(1), "")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
