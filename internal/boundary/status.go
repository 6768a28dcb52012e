package boundary

import (
	"errors"

	"github.com/illarion/cryptify/internal/crypto"
)

// Status is the signed integer every entry point returns.
type Status int32

const (
	StatusOK                  Status = 0
	StatusNullPointer         Status = -1
	StatusInvalidLength       Status = -2
	StatusEncryptionFailed    Status = -3
	StatusDecryptionFailed    Status = -4
	StatusKeyDerivationFailed Status = -5
	StatusTextEncoding        Status = -6
	// StatusNotEqual is returned only by ConstantTimeCompare.
	StatusNotEqual Status = -7
)

// Results of ConstantTimeCompare. Equal shares the success code of every
// other entry point, so a host checking rc == 0 never accepts a mismatch.
const (
	CompareEqual     = int32(StatusOK)
	CompareDifferent = int32(StatusNotEqual)
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNullPointer:
		return "null pointer"
	case StatusInvalidLength:
		return "invalid length"
	case StatusEncryptionFailed:
		return "encryption failed"
	case StatusDecryptionFailed:
		return "decryption failed"
	case StatusKeyDerivationFailed:
		return "key derivation failed"
	case StatusTextEncoding:
		return "text encoding error"
	case StatusNotEqual:
		return "not equal"
	default:
		return "unknown status"
	}
}

// Err converts s back into the crypto package's sentinel error, or nil for StatusOK.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusNullPointer:
		return crypto.ErrNullPointer
	case StatusInvalidLength:
		return crypto.ErrInvalidLength
	case StatusEncryptionFailed:
		return crypto.ErrEncryptionFailed
	case StatusDecryptionFailed:
		return crypto.ErrDecryptionFailed
	case StatusKeyDerivationFailed:
		return crypto.ErrKeyDerivationFailed
	case StatusTextEncoding:
		return crypto.ErrTextEncoding
	default:
		return errors.New(s.String())
	}
}

// statusOf classifies err. Errors outside the taxonomy (a failing entropy
// source, an unexpected library error) become fallback, the failure code of
// the operation that produced them.
func statusOf(err error, fallback Status) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, crypto.ErrNullPointer):
		return StatusNullPointer
	case errors.Is(err, crypto.ErrInvalidLength):
		return StatusInvalidLength
	// Checked before ErrKeyDerivationFailed, which wraps it.
	case errors.Is(err, crypto.ErrTextEncoding):
		return StatusTextEncoding
	case errors.Is(err, crypto.ErrKeyDerivationFailed):
		return StatusKeyDerivationFailed
	case errors.Is(err, crypto.ErrEncryptionFailed):
		return StatusEncryptionFailed
	case errors.Is(err, crypto.ErrDecryptionFailed):
		return StatusDecryptionFailed
	default:
		return fallback
	}
}
