package service

import (
	"go-bank-ledger/logger"

	"golang.org/x/crypto/bcrypt"
)

// BcryptPinHasher implements model.PinHasher with salted bcrypt hashes.
type BcryptPinHasher struct {
	cost int
}

func NewBcryptPinHasher() *BcryptPinHasher {
	return &BcryptPinHasher{cost: bcrypt.DefaultCost}
}

// NewBcryptPinHasherWithCost is intended for tests, where the default cost
// is too slow.
func NewBcryptPinHasherWithCost(cost int) *BcryptPinHasher {
	return &BcryptPinHasher{cost: cost}
}

func (h *BcryptPinHasher) Hash(pin string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash PIN")
		return nil, err
	}
	return hash, nil
}

func (h *BcryptPinHasher) Verify(pin string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(pin)) == nil
}
