package crypto

import (
	"crypto/subtle"
	"errors"

	"github.com/awnumar/memguard"
)

const (
	SaltSize  = 16 // Argon2 salt size in bytes
	KeySize   = 32 // AES-256 key size
	NonceSize = 12 // GCM nonce size
	TagSize   = 16 // GCM authentication tag size
	HashSize  = 32 // SHA-256 storage hash size
)

var (
	ErrNullPointer         = errors.New("null pointer")
	ErrInvalidLength       = errors.New("invalid length")
	ErrEncryptionFailed    = errors.New("encryption failed")
	ErrDecryptionFailed    = errors.New("authentication failed")
	ErrKeyDerivationFailed = errors.New("key derivation failed")
	ErrTextEncoding        = errors.New("invalid text encoding")
)

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	memguard.WipeBytes(b)
}

// ClearAll clears every slice passed to it.
func ClearAll(bs ...[]byte) {
	for _, b := range bs {
		ClearBytes(b)
	}
}

// ConstantTimeCompare reports whether a and b hold the same bytes.
//
// Every byte pair is examined, so the running time does not depend on the
// position of the first mismatch. Lengths are not secret; a length mismatch
// returns ErrInvalidLength immediately.
func ConstantTimeCompare(a, b []byte) (bool, error) {
	if len(a) != len(b) {
		return false, ErrInvalidLength
	}
	return subtle.ConstantTimeCompare(a, b) == 1, nil
}

// Equal is ConstantTimeCompare for callers that treat a length mismatch as inequality.
func Equal(a, b []byte) bool {
	ok, err := ConstantTimeCompare(a, b)
	return err == nil && ok
}
