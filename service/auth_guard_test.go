package service

import (
	"context"
	"go-bank-ledger/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeHasher avoids bcrypt cost in unit tests.
type fakeHasher struct{}

func (fakeHasher) Hash(pin string) ([]byte, error)     { return []byte("h:" + pin), nil }
func (fakeHasher) Verify(pin string, hash []byte) bool { return string(hash) == "h:"+pin }

func guardAccount(pin string) *model.Account {
	hash, _ := fakeHasher{}.Hash(pin)
	return &model.Account{
		AccountNumber: "1000000001",
		Type:          model.AccountTypeBasic,
		PinHash:       hash,
	}
}

func newGuard() *AuthGuard {
	return NewAuthGuard(fakeHasher{}, NewMemoryCounterStore(), 3, 4)
}

func TestAuthGuardLockout(t *testing.T) {
	ctx := context.Background()
	guard := newGuard()
	acct := guardAccount("1234")

	// Three consecutive failures lock the account.
	for i := 0; i < 3; i++ {
		err := guard.Verify(ctx, acct, "0000")
		assert.ErrorIs(t, err, model.ErrAuthenticationFailed)
	}
	assert.True(t, acct.Locked)

	// A fourth attempt, correct or not, short-circuits on the lock without
	// touching the counter.
	assert.ErrorIs(t, guard.Verify(ctx, acct, "1234"), model.ErrAccountLocked)
	assert.ErrorIs(t, guard.Verify(ctx, acct, "0000"), model.ErrAccountLocked)
}

func TestAuthGuardSuccessResetsCounter(t *testing.T) {
	ctx := context.Background()
	guard := newGuard()
	acct := guardAccount("1234")

	assert.ErrorIs(t, guard.Verify(ctx, acct, "0000"), model.ErrAuthenticationFailed)
	assert.ErrorIs(t, guard.Verify(ctx, acct, "0000"), model.ErrAuthenticationFailed)
	assert.NoError(t, guard.Verify(ctx, acct, "1234"))

	// The counter restarts from zero after a success.
	assert.ErrorIs(t, guard.Verify(ctx, acct, "0000"), model.ErrAuthenticationFailed)
	assert.ErrorIs(t, guard.Verify(ctx, acct, "0000"), model.ErrAuthenticationFailed)
	assert.False(t, acct.Locked)
}

func TestAuthGuardChangePin(t *testing.T) {
	ctx := context.Background()
	guard := newGuard()
	acct := guardAccount("1234")

	t.Run("requires the old PIN", func(t *testing.T) {
		_, err := guard.ChangePin(ctx, acct, "0000", "5678")
		assert.ErrorIs(t, err, model.ErrAuthenticationFailed)
	})

	t.Run("rejects a short new PIN", func(t *testing.T) {
		_, err := guard.ChangePin(ctx, acct, "1234", "123")
		assert.ErrorIs(t, err, model.ErrWeakPin)
	})

	t.Run("returns the new hash", func(t *testing.T) {
		hash, err := guard.ChangePin(ctx, acct, "1234", "5678")
		assert.NoError(t, err)
		assert.True(t, fakeHasher{}.Verify("5678", hash))
	})
}

func TestAuthGuardReset(t *testing.T) {
	ctx := context.Background()
	guard := newGuard()
	acct := guardAccount("1234")

	assert.ErrorIs(t, guard.Verify(ctx, acct, "0000"), model.ErrAuthenticationFailed)
	assert.ErrorIs(t, guard.Verify(ctx, acct, "0000"), model.ErrAuthenticationFailed)
	guard.Reset(ctx, acct.AccountNumber)

	assert.ErrorIs(t, guard.Verify(ctx, acct, "0000"), model.ErrAuthenticationFailed)
	assert.False(t, acct.Locked)
}
