package model

// PinHasher is the one-way salted hashing capability injected into everything
// that touches PINs. Plaintext PINs must never be persisted or logged; only
// the opaque hash crosses this boundary.
type PinHasher interface {
	Hash(pin string) ([]byte, error)
	Verify(pin string, hash []byte) bool
}
