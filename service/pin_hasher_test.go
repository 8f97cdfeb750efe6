package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptPinHasher(t *testing.T) {
	hasher := NewBcryptPinHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("1234")
	assert.NoError(t, err)
	assert.NotContains(t, string(hash), "1234")

	assert.True(t, hasher.Verify("1234", hash))
	assert.False(t, hasher.Verify("4321", hash))
}

func TestBcryptPinHasherSaltsEachHash(t *testing.T) {
	hasher := NewBcryptPinHasherWithCost(bcrypt.MinCost)

	a, err := hasher.Hash("1234")
	assert.NoError(t, err)
	b, err := hasher.Hash("1234")
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}
