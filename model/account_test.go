package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// plainHasher keeps PIN checks trivial for tests; bcrypt is exercised in the
// service package.
type plainHasher struct{}

func (plainHasher) Hash(pin string) ([]byte, error)     { return []byte("h:" + pin), nil }
func (plainHasher) Verify(pin string, hash []byte) bool { return string(hash) == "h:"+pin }

func newTestAccount(typ AccountType, balance int64) *Account {
	hash, _ := plainHasher{}.Hash("1234")
	return &Account{
		AccountNumber: "1000000001",
		HolderName:    "Ada",
		Type:          typ,
		PinHash:       hash,
		Balance:       decimal.NewFromInt(balance),
		CreatedAt:     time.Now().UTC(),
	}
}

func TestAccountDeposit(t *testing.T) {
	acct := newTestAccount(AccountTypeBasic, 0)

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := acct.Deposit(decimal.Zero, "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
		_, err = acct.Deposit(decimal.NewFromInt(-5), "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.True(t, acct.Balance.IsZero())
		assert.Empty(t, acct.Transactions)
	})

	t.Run("credits balance and appends transaction", func(t *testing.T) {
		txn, err := acct.Deposit(decimal.NewFromInt(100), "payday")
		assert.NoError(t, err)
		assert.Equal(t, TxnDeposit, txn.Type)
		assert.True(t, acct.Balance.Equal(decimal.NewFromInt(100)))
		assert.True(t, txn.BalanceAfter.Equal(acct.Balance))
		assert.Len(t, acct.Transactions, 1)
	})

	t.Run("accepted on locked accounts", func(t *testing.T) {
		acct.Locked = true
		_, err := acct.Deposit(decimal.NewFromInt(10), "")
		assert.NoError(t, err)
		assert.True(t, acct.Balance.Equal(decimal.NewFromInt(110)))
		acct.Locked = false
	})
}

func TestAccountWithdrawBasic(t *testing.T) {
	t.Run("locked account is denied before anything else", func(t *testing.T) {
		acct := newTestAccount(AccountTypeBasic, 100)
		acct.Locked = true
		_, err := acct.Withdraw(decimal.NewFromInt(10), "")
		assert.ErrorIs(t, err, ErrAccountLocked)
	})

	t.Run("non-positive amount is denied", func(t *testing.T) {
		acct := newTestAccount(AccountTypeBasic, 100)
		_, err := acct.Withdraw(decimal.Zero, "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		acct := newTestAccount(AccountTypeBasic, 100)
		_, err := acct.Withdraw(decimal.NewFromInt(101), "")
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Empty(t, acct.Transactions)
	})

	t.Run("success debits and records", func(t *testing.T) {
		acct := newTestAccount(AccountTypeBasic, 100)
		txn, err := acct.Withdraw(decimal.NewFromInt(40), "groceries")
		assert.NoError(t, err)
		assert.Equal(t, TxnWithdrawal, txn.Type)
		assert.True(t, acct.Balance.Equal(decimal.NewFromInt(60)))
		assert.Len(t, acct.Transactions, 1)
	})
}

func TestAccountWithdrawCurrentOverdraft(t *testing.T) {
	acct := newTestAccount(AccountTypeCurrent, 100)
	acct.OverdraftLimit = decimal.NewFromInt(500)

	t.Run("exactly balance plus overdraft succeeds", func(t *testing.T) {
		_, err := acct.Withdraw(decimal.NewFromInt(600), "")
		assert.NoError(t, err)
		assert.True(t, acct.Balance.Equal(decimal.NewFromInt(-500)))
	})

	t.Run("one more unit fails", func(t *testing.T) {
		_, err := acct.Withdraw(decimal.NewFromInt(1), "")
		assert.ErrorIs(t, err, ErrOverdraftExceeded)
		assert.True(t, acct.Balance.Equal(decimal.NewFromInt(-500)))
	})
}

func TestAccountWithdrawFixedDeposit(t *testing.T) {
	t.Run("rejected before maturity", func(t *testing.T) {
		acct := newTestAccount(AccountTypeFixedDeposit, 1000)
		acct.MaturityDate = time.Now().Add(24 * time.Hour)
		_, err := acct.Withdraw(decimal.NewFromInt(10), "")
		assert.ErrorIs(t, err, ErrFundsLocked)
	})

	t.Run("behaves as basic at maturity", func(t *testing.T) {
		acct := newTestAccount(AccountTypeFixedDeposit, 1000)
		acct.MaturityDate = time.Now().Add(-time.Minute)

		_, err := acct.Withdraw(decimal.NewFromInt(2000), "")
		assert.ErrorIs(t, err, ErrInsufficientFunds)

		_, err = acct.Withdraw(decimal.NewFromInt(200), "")
		assert.NoError(t, err)
		assert.True(t, acct.Balance.Equal(decimal.NewFromInt(800)))
	})
}

func TestAccountAccrueInterest(t *testing.T) {
	t.Run("savings only", func(t *testing.T) {
		acct := newTestAccount(AccountTypeBasic, 100)
		_, err := acct.AccrueInterest()
		assert.ErrorIs(t, err, ErrInvalidAccountType)
	})

	t.Run("no-op on non-positive balance", func(t *testing.T) {
		acct := newTestAccount(AccountTypeSavings, 0)
		acct.InterestRate = decimal.RequireFromString("0.02")
		txn, err := acct.AccrueInterest()
		assert.NoError(t, err)
		assert.Nil(t, txn)
	})

	t.Run("credits balance times rate", func(t *testing.T) {
		acct := newTestAccount(AccountTypeSavings, 100)
		acct.InterestRate = decimal.RequireFromString("0.02")
		txn, err := acct.AccrueInterest()
		assert.NoError(t, err)
		assert.Equal(t, TxnInterest, txn.Type)
		assert.True(t, txn.Amount.Equal(decimal.NewFromInt(2)))
		assert.True(t, acct.Balance.Equal(decimal.NewFromInt(102)))
	})
}

func TestAccountBalanceFold(t *testing.T) {
	acct := newTestAccount(AccountTypeSavings, 0)
	acct.InterestRate = decimal.RequireFromString("0.05")

	_, err := acct.Deposit(decimal.NewFromInt(200), "")
	assert.NoError(t, err)
	_, err = acct.Withdraw(decimal.NewFromInt(50), "")
	assert.NoError(t, err)
	_, err = acct.AccrueInterest()
	assert.NoError(t, err)

	// Semantic transfer annotations mirror a mechanical record and must not
	// change the fold.
	acct.Annotate(NewTransaction(acct.AccountNumber, TxnTransferOut, decimal.NewFromInt(10), ""))

	assert.True(t, acct.Balance.Equal(acct.RecomputedBalance()),
		"balance %s != fold %s", acct.Balance, acct.RecomputedBalance())
}

func TestAccountUnapply(t *testing.T) {
	acct := newTestAccount(AccountTypeBasic, 0)
	txn, _ := acct.Deposit(decimal.NewFromInt(75), "")
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(75)))

	acct.Unapply(txn)
	assert.True(t, acct.Balance.IsZero())
	assert.Empty(t, acct.Transactions)
}

func TestParseAccountType(t *testing.T) {
	for _, tag := range []string{"basic", "savings", "current", "fixed", "fixeddeposit", "fixed_deposit"} {
		_, err := ParseAccountType(tag)
		assert.NoError(t, err, tag)
	}
	_, err := ParseAccountType("premium")
	assert.ErrorIs(t, err, ErrInvalidAccountType)
}
