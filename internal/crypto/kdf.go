package crypto

import (
	"crypto/sha256"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters. Memory is in KiB.
const (
	Argon2Time    uint32 = 3
	Argon2Memory  uint32 = 64 * 1024
	Argon2Threads uint8  = 1
)

// KDFParams describes the Argon2id parameters a key was derived with.
// Hosts persist it next to the salt so a later parameter bump can be detected.
type KDFParams struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultKDFParams returns the parameters DeriveKey uses.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Time:    Argon2Time,
		Memory:  Argon2Memory,
		Threads: Argon2Threads,
	}
}

// String formats the parameters the way they are shown in status output.
func (p KDFParams) String() string {
	return fmt.Sprintf("argon2id t=%d m=%dKiB p=%d", p.Time, p.Memory, p.Threads)
}

func (p KDFParams) validate() error {
	if p.Time == 0 || p.Memory < 8*uint32(p.Threads) || p.Threads == 0 {
		return fmt.Errorf("%w: unsupported parameters %s", ErrKeyDerivationFailed, p)
	}
	return nil
}

// DeriveKey derives a 32-byte key from a password and a 16-byte salt.
// The same password and salt always produce the same key. An empty password
// is valid input; refusing it is left to callers.
// The caller owns the returned key and must ClearBytes it.
func DeriveKey(password, salt []byte) ([]byte, error) {
	return DeriveKeyWithParams(password, salt, DefaultKDFParams())
}

// DeriveKeyWithParams is DeriveKey with explicit Argon2id parameters.
func DeriveKeyWithParams(password, salt []byte, params KDFParams) ([]byte, error) {
	if password == nil || salt == nil {
		return nil, ErrNullPointer
	}
	if len(salt) != SaltSize {
		return nil, ErrInvalidLength
	}
	if !utf8.Valid(password) {
		return nil, fmt.Errorf("%w: %w", ErrKeyDerivationFailed, ErrTextEncoding)
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	key := argon2.IDKey(password, salt, params.Time, params.Memory, params.Threads, KeySize)
	if len(key) != KeySize {
		ClearBytes(key)
		return nil, ErrKeyDerivationFailed
	}
	return key, nil
}

// HashForStorage returns a SHA-256 digest of a derived key.
// The digest is safe to persist and is only ever compared, never reversed.
// Argon2 already makes guessing expensive, so a single fast hash suffices here.
func HashForStorage(key []byte) ([]byte, error) {
	if key == nil {
		return nil, ErrNullPointer
	}
	if len(key) != KeySize {
		return nil, ErrInvalidLength
	}
	sum := sha256.Sum256(key)
	return sum[:], nil
}
