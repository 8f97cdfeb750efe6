package service

import (
	"context"
	"database/sql"
	"fmt"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Variant parameter defaults applied when a create request leaves them zero.
var (
	defaultInterestRate   = decimal.RequireFromString("0.02")
	defaultOverdraftLimit = decimal.NewFromInt(500)
)

const defaultLockPeriodDays = 30

// LedgerService owns the account collection and orchestrates every
// multi-step operation: it locates accounts, lets the account apply its
// variant-specific rule, and persists the mutation plus transaction rows in
// one database transaction.
//
// Each account is serialized through its own mutex; transfers acquire both
// account locks in ascending account-number order so opposing transfers
// cannot deadlock.
type LedgerService struct {
	db           *sql.DB
	accountRepo  repository.IAccountRepository
	txnRepo      repository.ITransactionRepository
	guard        *AuthGuard
	hasher       model.PinHasher
	storeTimeout time.Duration
	historyLimit int

	mu       sync.RWMutex
	accounts map[string]*model.Account
	locks    map[string]*sync.Mutex
}

func NewLedgerService(db *sql.DB, accountRepo repository.IAccountRepository, txnRepo repository.ITransactionRepository,
	guard *AuthGuard, hasher model.PinHasher, storeTimeout time.Duration, historyLimit int) *LedgerService {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &LedgerService{
		db:           db,
		accountRepo:  accountRepo,
		txnRepo:      txnRepo,
		guard:        guard,
		hasher:       hasher,
		storeTimeout: storeTimeout,
		historyLimit: historyLimit,
		accounts:     make(map[string]*model.Account),
		locks:        make(map[string]*sync.Mutex),
	}
}

// Load reads all accounts and their histories from the store. Called once at
// startup before the service accepts operations.
func (s *LedgerService) Load(ctx context.Context) error {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	accounts, err := s.accountRepo.LoadAllAccounts(sctx)
	if err != nil {
		return storeErr(err)
	}
	for _, acct := range accounts {
		txns, err := s.txnRepo.LoadTransactions(sctx, acct.AccountNumber)
		if err != nil {
			return storeErr(err)
		}
		acct.Transactions = txns
		s.register(acct)
	}
	logger.Log.WithField("accounts", len(accounts)).Info("Ledger state loaded from store")
	return nil
}

// CreateAccount generates a unique account number, hashes the PIN and
// persists the new account together with its initial-deposit transaction.
func (s *LedgerService) CreateAccount(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error) {
	accountType, err := model.ParseAccountType(strings.ToLower(strings.TrimSpace(req.Type)))
	if err != nil {
		return nil, err
	}
	pin := strings.TrimSpace(req.Pin)
	if len(pin) < s.guard.MinPinLength() {
		return nil, model.ErrWeakPin
	}
	if req.InitialDeposit.Sign() < 0 {
		return nil, model.ErrInvalidAmount
	}

	pinHash, err := s.hasher.Hash(pin)
	if err != nil {
		return nil, err
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	accountNumber, err := s.generateAccountNumber(sctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acct := &model.Account{
		AccountNumber: accountNumber,
		HolderName:    req.HolderName,
		Type:          accountType,
		PinHash:       pinHash,
		Balance:       decimal.Zero,
		CreatedAt:     now,
	}
	switch accountType {
	case model.AccountTypeSavings:
		acct.InterestRate = defaultInterestRate
		if req.InterestRate.Sign() > 0 {
			acct.InterestRate = req.InterestRate
		}
	case model.AccountTypeCurrent:
		acct.OverdraftLimit = defaultOverdraftLimit
		if req.OverdraftLimit.Sign() > 0 {
			acct.OverdraftLimit = req.OverdraftLimit
		}
	case model.AccountTypeFixedDeposit:
		days := req.LockPeriodDays
		if days <= 0 {
			days = defaultLockPeriodDays
		}
		acct.MaturityDate = now.Add(time.Duration(days) * 24 * time.Hour)
	}

	var initialTxn *model.Transaction
	if req.InitialDeposit.Sign() > 0 {
		// Cannot fail: the amount was checked above.
		initialTxn, _ = acct.Deposit(req.InitialDeposit, "Initial deposit")
	}

	err = s.withTx(sctx, func(tx *sql.Tx) error {
		if err := s.accountRepo.InsertAccount(sctx, tx, acct); err != nil {
			return err
		}
		if initialTxn != nil {
			return s.txnRepo.InsertTransaction(sctx, tx, initialTxn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.register(acct)
	s.guard.Reset(ctx, accountNumber)

	logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"account_type":   accountType,
		"holder_name":    req.HolderName,
	}).Info("Account created")
	return acct, nil
}

// Deposit credits an account and persists the balance and transaction row.
func (s *LedgerService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	acct, lock, err := s.account(accountNumber)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()

	txn, err := acct.Deposit(amount, description)
	if err != nil {
		return nil, err
	}
	if err := s.persistMutation(ctx, acct, txn); err != nil {
		acct.Unapply(txn)
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"amount":         amount,
	}).Info("Deposit completed")
	return txn, nil
}

// Withdraw debits an account after inline PIN verification. Any PIN failure
// aborts before the balance is touched; a lockout tripped here is persisted
// as part of the same operation.
func (s *LedgerService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, pin, description string) (*model.Transaction, error) {
	acct, lock, err := s.account(accountNumber)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()

	if err := s.verifyPin(ctx, acct, pin); err != nil {
		return nil, err
	}

	txn, err := acct.Withdraw(amount, description)
	if err != nil {
		return nil, err
	}
	if err := s.persistMutation(ctx, acct, txn); err != nil {
		acct.Unapply(txn)
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"amount":         amount,
	}).Info("Withdrawal completed")
	return txn, nil
}

// Transfer moves money between two accounts. The caller observes it as
// atomic: a failure at any step before the commit leaves both accounts
// untouched, and both sides are persisted in one database transaction.
// Each side records the mechanical movement plus a semantic transfer record.
func (s *LedgerService) Transfer(ctx context.Context, req model.TransferRequest) (*model.Transaction, error) {
	if req.FromAccount == req.ToAccount {
		return nil, model.ErrSameAccountTransfer
	}

	from, fromLock, err := s.account(req.FromAccount)
	if err != nil {
		return nil, err
	}
	to, toLock, err := s.account(req.ToAccount)
	if err != nil {
		return nil, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"from_account": req.FromAccount,
		"to_account":   req.ToAccount,
		"amount":       req.Amount,
	})
	log.Info("Starting money transfer")

	// Fixed global lock order prevents deadlock between opposing transfers.
	first, second := fromLock, toLock
	if req.FromAccount > req.ToAccount {
		first, second = toLock, fromLock
	}
	first.Lock()
	defer first.Unlock()
	second.Lock()
	defer second.Unlock()

	// Only the source account authenticates.
	if err := s.verifyPin(ctx, from, req.Pin); err != nil {
		return nil, err
	}

	withdrawTxn, err := from.Withdraw(req.Amount, transferNote("Transfer to", req.ToAccount, req.Description))
	if err != nil {
		return nil, err
	}
	depositTxn, err := to.Deposit(req.Amount, transferNote("Transfer from", req.FromAccount, req.Description))
	if err != nil {
		from.Unapply(withdrawTxn)
		return nil, err
	}

	outTxn := model.NewTransaction(from.AccountNumber, model.TxnTransferOut, req.Amount, transferNote("To", req.ToAccount, req.Description))
	from.Annotate(outTxn)
	inTxn := model.NewTransaction(to.AccountNumber, model.TxnTransferIn, req.Amount, transferNote("From", req.FromAccount, req.Description))
	to.Annotate(inTxn)

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	err = s.withTx(sctx, func(tx *sql.Tx) error {
		if err := s.accountRepo.UpdateBalanceAndLock(sctx, tx, from.AccountNumber, from.Balance, from.Locked); err != nil {
			return err
		}
		if err := s.accountRepo.UpdateBalanceAndLock(sctx, tx, to.AccountNumber, to.Balance, to.Locked); err != nil {
			return err
		}
		for _, txn := range []*model.Transaction{withdrawTxn, outTxn, depositTxn, inTxn} {
			if err := s.txnRepo.InsertTransaction(sctx, tx, txn); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		from.Unapply(withdrawTxn, outTxn)
		to.Unapply(depositTxn, inTxn)
		return nil, err
	}

	log.Info("Transfer completed successfully")
	return outTxn, nil
}

// ChangePin rotates an account PIN after verifying the old one.
func (s *LedgerService) ChangePin(ctx context.Context, accountNumber, oldPin, newPin string) error {
	acct, lock, err := s.account(accountNumber)
	if err != nil {
		return err
	}
	lock.Lock()
	defer lock.Unlock()

	wasLocked := acct.Locked
	newHash, err := s.guard.ChangePin(ctx, acct, oldPin, newPin)
	if err != nil {
		if acct.Locked && !wasLocked {
			s.persistLockState(ctx, acct)
		}
		return err
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.accountRepo.UpdatePinHash(sctx, accountNumber, newHash); err != nil {
		return storeErr(err)
	}
	acct.SetPinHash(newHash)

	logger.Log.WithField("account_number", accountNumber).Info("PIN changed")
	return nil
}

// Unlock is the explicit administrative reset for a locked account. It
// clears the lock flag and the failure counter. Idempotent.
func (s *LedgerService) Unlock(ctx context.Context, accountNumber string) error {
	acct, lock, err := s.account(accountNumber)
	if err != nil {
		return err
	}
	lock.Lock()
	defer lock.Unlock()

	if !acct.Locked {
		s.guard.Reset(ctx, accountNumber)
		return nil
	}

	acct.Locked = false
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.accountRepo.UpdateBalanceAndLock(sctx, nil, accountNumber, acct.Balance, false); err != nil {
		acct.Locked = true
		return storeErr(err)
	}
	s.guard.Reset(ctx, accountNumber)

	logger.Log.WithField("account_number", accountNumber).Info("Account unlocked by operator")
	return nil
}

// AccrueInterest credits interest on a savings account. Returns (nil, nil)
// when the balance is not positive.
func (s *LedgerService) AccrueInterest(ctx context.Context, accountNumber string) (*model.Transaction, error) {
	acct, lock, err := s.account(accountNumber)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()

	txn, err := acct.AccrueInterest()
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, nil
	}
	if err := s.persistMutation(ctx, acct, txn); err != nil {
		acct.Unapply(txn)
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"interest":       txn.Amount,
	}).Info("Interest accrued")
	return txn, nil
}

// TransactionHistory returns the most recent limit transactions, newest
// first. A non-positive limit falls back to the configured default.
func (s *LedgerService) TransactionHistory(ctx context.Context, accountNumber string, limit int) ([]*model.Transaction, error) {
	if _, _, err := s.account(accountNumber); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.historyLimit
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	txns, err := s.txnRepo.QueryTransactions(sctx, accountNumber, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	return txns, nil
}

// GetAccount returns a snapshot copy of an account without its history.
func (s *LedgerService) GetAccount(accountNumber string) (*model.Account, error) {
	acct, lock, err := s.account(accountNumber)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()
	snapshot := *acct
	snapshot.Transactions = nil
	snapshot.PinHash = nil
	return &snapshot, nil
}

// --- internals ---

func (s *LedgerService) register(acct *model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.AccountNumber] = acct
	s.locks[acct.AccountNumber] = &sync.Mutex{}
}

func (s *LedgerService) account(accountNumber string) (*model.Account, *sync.Mutex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[accountNumber]
	if !ok {
		return nil, nil, model.ErrAccountNotFound
	}
	return acct, s.locks[accountNumber], nil
}

func (s *LedgerService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// storeErr hides driver detail behind the StoreUnavailable sentinel while
// keeping the cause in the message for logs.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
}

func (s *LedgerService) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return storeErr(err)
	}
	if err := tx.Commit(); err != nil {
		return storeErr(err)
	}
	return nil
}

// persistMutation writes the account's balance/lock state and one new
// transaction row in a single database transaction.
func (s *LedgerService) persistMutation(ctx context.Context, acct *model.Account, txn *model.Transaction) error {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.withTx(sctx, func(tx *sql.Tx) error {
		if err := s.accountRepo.UpdateBalanceAndLock(sctx, tx, acct.AccountNumber, acct.Balance, acct.Locked); err != nil {
			return err
		}
		return s.txnRepo.InsertTransaction(sctx, tx, txn)
	})
}

// verifyPin runs the AuthGuard and, when the check trips the lockout,
// persists the lock flag before returning the authentication failure.
func (s *LedgerService) verifyPin(ctx context.Context, acct *model.Account, pin string) error {
	wasLocked := acct.Locked
	if err := s.guard.Verify(ctx, acct, pin); err != nil {
		if acct.Locked && !wasLocked {
			s.persistLockState(ctx, acct)
		}
		return err
	}
	return nil
}

func (s *LedgerService) persistLockState(ctx context.Context, acct *model.Account) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.accountRepo.UpdateBalanceAndLock(sctx, nil, acct.AccountNumber, acct.Balance, acct.Locked); err != nil {
		logger.Log.WithError(err).WithField("account_number", acct.AccountNumber).
			Error("Failed to persist lock state")
	}
}

func (s *LedgerService) generateAccountNumber(ctx context.Context) (string, error) {
	for {
		candidate := strconv.FormatInt(rand.Int64N(9_000_000_000)+1_000_000_000, 10)

		s.mu.RLock()
		_, taken := s.accounts[candidate]
		s.mu.RUnlock()
		if taken {
			continue
		}

		exists, err := s.accountRepo.AccountNumberExists(ctx, candidate)
		if err != nil {
			return "", storeErr(err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

func transferNote(prefix, counterparty, description string) string {
	note := fmt.Sprintf("%s %s.", prefix, counterparty)
	if description != "" {
		note += " " + description
	}
	return note
}
