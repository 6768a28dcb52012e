// Package engine is the typed host-side view of the cryptify library.
//
// Every method marshals Go values into the raw buffers of the exported
// boundary, calls it, and turns the returned status back into an error that
// wraps the crypto package's sentinels. Hosts that link the shared library
// see the same behavior through the C header; Go hosts use Engine directly.
package engine

import (
	"bytes"
	"fmt"
	"unsafe"

	"github.com/illarion/cryptify/internal/boundary"
	"github.com/illarion/cryptify/internal/crypto"
)

// Engine wraps the boundary entry points. The zero value is ready to use and
// an Engine may be shared between goroutines.
type Engine struct{}

// New returns an Engine.
func New() *Engine {
	return &Engine{}
}

// empty backs zero-length buffers; the boundary requires a non-null pointer
// even when nothing is read.
var empty [1]byte

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return unsafe.Pointer(&empty[0])
	}
	return unsafe.Pointer(unsafe.SliceData(b))
}

func check(op string, st boundary.Status) error {
	if st == boundary.StatusOK {
		return nil
	}
	return fmt.Errorf("%s: %w", op, st.Err())
}

// GenerateSalt returns a fresh 16-byte salt.
func (e *Engine) GenerateSalt() ([]byte, error) {
	salt := make([]byte, crypto.SaltSize)
	if err := check("generate salt", boundary.GenerateSalt(ptr(salt), uintptr(len(salt)))); err != nil {
		return nil, err
	}
	return salt, nil
}

// GenerateNonce returns a fresh 12-byte nonce.
func (e *Engine) GenerateNonce() ([]byte, error) {
	nonce := make([]byte, crypto.NonceSize)
	if err := check("generate nonce", boundary.GenerateNonce(ptr(nonce), uintptr(len(nonce)))); err != nil {
		return nil, err
	}
	return nonce, nil
}

// GeneratePassword returns a random password of length characters drawn from
// lowercase letters plus the classes enabled in opts. The caller should wipe
// the result with crypto.ClearBytes.
func (e *Engine) GeneratePassword(length int, opts crypto.PasswordOptions) ([]byte, error) {
	if length < crypto.MinPasswordLength || length > crypto.MaxPasswordLength {
		return nil, fmt.Errorf("generate password: %w", crypto.ErrInvalidLength)
	}
	buf := make([]byte, length+1)
	st := boundary.GeneratePassword(uintptr(length), opts.Uppercase, opts.Digits, opts.Special, ptr(buf), uintptr(len(buf)))
	if err := check("generate password", st); err != nil {
		return nil, err
	}
	return buf[:length:length], nil
}

// DeriveKey derives the 32-byte key for password and salt. The caller owns the
// key and must wipe it.
//
// The password crosses the boundary as a C string, so an embedded NUL byte is
// rejected rather than silently truncating the secret.
func (e *Engine) DeriveKey(password, salt []byte) ([]byte, error) {
	if bytes.IndexByte(password, 0) >= 0 {
		return nil, fmt.Errorf("derive key: %w", crypto.ErrTextEncoding)
	}
	cstr := make([]byte, len(password)+1)
	copy(cstr, password)
	defer crypto.ClearBytes(cstr)

	key := make([]byte, crypto.KeySize)
	st := boundary.DeriveKey(ptr(cstr), ptr(salt), uintptr(len(salt)), ptr(key), uintptr(len(key)))
	if err := check("derive key", st); err != nil {
		return nil, err
	}
	return key, nil
}

// HashKeyForStorage returns the SHA-256 digest of key.
func (e *Engine) HashKeyForStorage(key []byte) ([]byte, error) {
	hash := make([]byte, crypto.HashSize)
	st := boundary.HashKeyForStorage(ptr(key), uintptr(len(key)), ptr(hash), uintptr(len(hash)))
	if err := check("hash key", st); err != nil {
		return nil, err
	}
	return hash, nil
}

// Encrypt seals plaintext under key and returns the ciphertext (tag appended)
// and the nonce it was sealed with.
func (e *Engine) Encrypt(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	ciphertext = make([]byte, len(plaintext)+crypto.TagSize)
	nonce = make([]byte, crypto.NonceSize)
	n := uintptr(len(ciphertext))

	st := boundary.Encrypt(
		ptr(plaintext), uintptr(len(plaintext)),
		ptr(key), uintptr(len(key)),
		ptr(ciphertext), &n,
		ptr(nonce), uintptr(len(nonce)),
	)
	if err := check("encrypt", st); err != nil {
		return nil, nil, err
	}
	return ciphertext[:n], nonce, nil
}

// Decrypt verifies and opens ciphertext. Any authentication failure, whether
// from tampering, a wrong key or a wrong nonce, wraps crypto.ErrDecryptionFailed.
func (e *Engine) Decrypt(ciphertext, key, nonce []byte) ([]byte, error) {
	if len(ciphertext) < crypto.TagSize {
		return nil, fmt.Errorf("decrypt: %w", crypto.ErrInvalidLength)
	}
	plaintext := make([]byte, len(ciphertext)-crypto.TagSize)
	n := uintptr(len(plaintext))

	st := boundary.Decrypt(
		ptr(ciphertext), uintptr(len(ciphertext)),
		ptr(key), uintptr(len(key)),
		ptr(nonce), uintptr(len(nonce)),
		ptr(plaintext), &n,
	)
	if err := check("decrypt", st); err != nil {
		return nil, err
	}
	return plaintext[:n], nil
}

// Compare reports whether a and b are equal, in time that depends only on
// their length. Inputs of different length are an error.
func (e *Engine) Compare(a, b []byte) (bool, error) {
	if len(a) != len(b) {
		return false, fmt.Errorf("compare: %w", crypto.ErrInvalidLength)
	}
	res := boundary.ConstantTimeCompare(ptr(a), ptr(b), uintptr(len(a)))
	switch res {
	case boundary.CompareEqual:
		return true, nil
	case boundary.CompareDifferent:
		return false, nil
	default:
		return false, check("compare", boundary.Status(res))
	}
}

// VerifyPassword derives the key for password and salt and compares its
// storage hash against storedHash. On success the derived key is returned so
// the caller can unlock without a second derivation.
func (e *Engine) VerifyPassword(password, salt, storedHash []byte) ([]byte, bool, error) {
	key, err := e.DeriveKey(password, salt)
	if err != nil {
		return nil, false, err
	}
	hash, err := e.HashKeyForStorage(key)
	if err != nil {
		crypto.ClearBytes(key)
		return nil, false, err
	}
	defer crypto.ClearBytes(hash)

	if len(storedHash) != len(hash) {
		crypto.ClearBytes(key)
		return nil, false, nil
	}
	ok, err := e.Compare(hash, storedHash)
	if err != nil || !ok {
		crypto.ClearBytes(key)
		return nil, false, err
	}
	return key, true, nil
}
