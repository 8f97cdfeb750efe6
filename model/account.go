package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeBasic        AccountType = "basic"
	AccountTypeSavings      AccountType = "savings"
	AccountTypeCurrent      AccountType = "current"
	AccountTypeFixedDeposit AccountType = "fixed"
)

// ParseAccountType normalizes a type tag. The "fixeddeposit" and
// "fixed_deposit" spellings are accepted for compatibility.
func ParseAccountType(tag string) (AccountType, error) {
	switch AccountType(tag) {
	case AccountTypeBasic, AccountTypeSavings, AccountTypeCurrent, AccountTypeFixedDeposit:
		return AccountType(tag), nil
	}
	if tag == "fixeddeposit" || tag == "fixed_deposit" {
		return AccountTypeFixedDeposit, nil
	}
	return "", ErrInvalidAccountType
}

// Account is a tagged variant over one common record: all four account kinds
// share holder, number, PIN hash, balance, lock flag and history, and diverge
// only in the withdrawal policy driven by Type and the variant parameters.
//
// Accounts are not self-synchronizing. The Ledger serializes all access to an
// account through its per-account lock.
type Account struct {
	AccountNumber string          `json:"account_number"`
	HolderName    string          `json:"holder_name"`
	Type          AccountType     `json:"account_type"`
	PinHash       []byte          `json:"-"`
	Balance       decimal.Decimal `json:"balance"`
	Locked        bool            `json:"locked"`
	CreatedAt     time.Time       `json:"created_at"`

	// Variant parameters. Only the field matching Type is meaningful.
	InterestRate   decimal.Decimal `json:"interest_rate,omitempty"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit,omitempty"`
	MaturityDate   time.Time       `json:"maturity_date,omitzero"`

	Transactions []*Transaction `json:"-"`
}

// Authenticate verifies a plaintext PIN against the stored hash.
func (a *Account) Authenticate(hasher PinHasher, pin string) bool {
	if len(a.PinHash) == 0 {
		return false
	}
	return hasher.Verify(pin, a.PinHash)
}

// SetPinHash replaces the stored PIN hash.
func (a *Account) SetPinHash(hash []byte) {
	a.PinHash = hash
}

// Deposit credits the account and appends a deposit transaction.
// Deposits are accepted on locked accounts: lockout gates debits only.
func (a *Account) Deposit(amount decimal.Decimal, description string) (*Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	txn := NewTransaction(a.AccountNumber, TxnDeposit, amount, description)
	txn.BalanceAfter = a.Balance
	a.Transactions = append(a.Transactions, txn)
	return txn, nil
}

// Withdraw debits the account after the lock, amount and variant-specific
// sufficiency checks pass, in that order. PIN verification is owned by the
// caller and must happen before the account mutates.
func (a *Account) Withdraw(amount decimal.Decimal, description string) (*Transaction, error) {
	if a.Locked {
		return nil, ErrAccountLocked
	}
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := a.checkSufficiency(amount, time.Now()); err != nil {
		return nil, err
	}
	a.Balance = a.Balance.Sub(amount)
	txn := NewTransaction(a.AccountNumber, TxnWithdrawal, amount, description)
	txn.BalanceAfter = a.Balance
	a.Transactions = append(a.Transactions, txn)
	return txn, nil
}

// checkSufficiency applies the per-variant withdrawal rule.
func (a *Account) checkSufficiency(amount decimal.Decimal, now time.Time) error {
	switch a.Type {
	case AccountTypeCurrent:
		if amount.GreaterThan(a.Balance.Add(a.OverdraftLimit)) {
			return ErrOverdraftExceeded
		}
	case AccountTypeFixedDeposit:
		if now.Before(a.MaturityDate) {
			return ErrFundsLocked
		}
		if amount.GreaterThan(a.Balance) {
			return ErrInsufficientFunds
		}
	default: // basic and savings
		if amount.GreaterThan(a.Balance) {
			return ErrInsufficientFunds
		}
	}
	return nil
}

// AccrueInterest credits balance * interest_rate as an interest transaction.
// Returns (nil, nil) when the balance is not positive. Only savings accounts
// accrue interest.
func (a *Account) AccrueInterest() (*Transaction, error) {
	if a.Type != AccountTypeSavings {
		return nil, ErrInvalidAccountType
	}
	if a.Balance.Sign() <= 0 {
		return nil, nil
	}
	interest := a.Balance.Mul(a.InterestRate)
	a.Balance = a.Balance.Add(interest)
	txn := NewTransaction(a.AccountNumber, TxnInterest, interest, "Interest credit")
	txn.BalanceAfter = a.Balance
	a.Transactions = append(a.Transactions, txn)
	return txn, nil
}

// Annotate appends a semantic transfer record without touching the balance.
// Transfer annotations mirror a mechanical withdrawal or deposit recorded in
// the same operation; the mechanical record is the fold participant.
func (a *Account) Annotate(txn *Transaction) {
	txn.BalanceAfter = a.Balance
	a.Transactions = append(a.Transactions, txn)
}

// Unapply removes the given transactions from the history tail and reverses
// their balance effect. Used by the Ledger when a durable write fails after
// the in-memory mutation.
func (a *Account) Unapply(txns ...*Transaction) {
	for _, t := range txns {
		for i := len(a.Transactions) - 1; i >= 0; i-- {
			if a.Transactions[i].ID == t.ID {
				a.Transactions = append(a.Transactions[:i], a.Transactions[i+1:]...)
				break
			}
		}
		if t.Type != TxnTransferIn && t.Type != TxnTransferOut {
			a.Balance = a.Balance.Sub(t.Signed())
		}
	}
}

// RecomputedBalance folds the signed amounts of the recorded history from
// zero. Transfer annotations are skipped: each one mirrors a mechanical
// record already counted.
func (a *Account) RecomputedBalance() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range a.Transactions {
		if t.Type == TxnTransferIn || t.Type == TxnTransferOut {
			continue
		}
		sum = sum.Add(t.Signed())
	}
	return sum
}
