package service

import (
	"context"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"

	"github.com/sirupsen/logrus"
)

const pinAttemptsKeyPrefix = "pin_attempts:"

// AuthGuard enforces the PIN lockout state machine. Per account the state is
// Open(failures 0..maxAttempts-1) -> Locked, a one-way transition: there is
// no automatic unlock, only the explicit administrative one.
//
// The guard mutates the account's Locked flag but never persists it; the
// caller owns the account lock and the durable write.
type AuthGuard struct {
	hasher       model.PinHasher
	counters     ICounterStore
	maxAttempts  int64
	minPinLength int
}

func NewAuthGuard(hasher model.PinHasher, counters ICounterStore, maxAttempts, minPinLength int) *AuthGuard {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if minPinLength <= 0 {
		minPinLength = 4
	}
	return &AuthGuard{
		hasher:       hasher,
		counters:     counters,
		maxAttempts:  int64(maxAttempts),
		minPinLength: minPinLength,
	}
}

func (g *AuthGuard) MinPinLength() int {
	return g.minPinLength
}

// Verify checks a plaintext PIN against the account. A locked account fails
// immediately without touching the counter. A successful check resets the
// counter; a failed one increments it and trips the lock at the threshold.
func (g *AuthGuard) Verify(ctx context.Context, account *model.Account, pin string) error {
	if account.Locked {
		return model.ErrAccountLocked
	}

	key := pinAttemptsKeyPrefix + account.AccountNumber

	if account.Authenticate(g.hasher, pin) {
		if err := g.counters.Del(ctx, key); err != nil {
			logger.Log.WithError(err).WithField("account_number", account.AccountNumber).
				Warn("Failed to reset PIN failure counter")
		}
		return nil
	}

	count, err := g.counters.Incr(ctx, key)
	if err != nil {
		logger.Log.WithError(err).WithField("account_number", account.AccountNumber).
			Warn("Failed to increment PIN failure counter")
		return model.ErrAuthenticationFailed
	}

	log := logger.Log.WithFields(logrus.Fields{
		"account_number":  account.AccountNumber,
		"failed_attempts": count,
		"max_attempts":    g.maxAttempts,
	})
	log.Warn("PIN verification failed")

	if count >= g.maxAttempts {
		account.Locked = true
		log.Warn("Account locked after too many failed PIN attempts")
	}
	return model.ErrAuthenticationFailed
}

// ChangePin verifies the old PIN, checks the new one against the minimum
// length and returns its hash. The caller persists the hash and applies it
// to the account once the write succeeds.
func (g *AuthGuard) ChangePin(ctx context.Context, account *model.Account, oldPin, newPin string) ([]byte, error) {
	if err := g.Verify(ctx, account, oldPin); err != nil {
		return nil, err
	}
	if len(newPin) < g.minPinLength {
		return nil, model.ErrWeakPin
	}
	return g.hasher.Hash(newPin)
}

// Reset clears the failure counter for an account. Called when an account is
// created or administratively unlocked.
func (g *AuthGuard) Reset(ctx context.Context, accountNumber string) {
	if err := g.counters.Del(ctx, pinAttemptsKeyPrefix+accountNumber); err != nil {
		logger.Log.WithError(err).WithField("account_number", accountNumber).
			Warn("Failed to reset PIN failure counter")
	}
}
