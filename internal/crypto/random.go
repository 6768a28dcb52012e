package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// Character classes used by GeneratePassword.
const (
	LowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	UppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DigitChars     = "0123456789"
	SpecialChars   = "!@#$%^&*()-_=+[]{}|;:,.<>?"
)

// randReader is the CSPRNG behind every random value in the package.
// crypto/rand is safe for concurrent use and reseeds from the kernel, so
// forked processes never share a stream.
var randReader io.Reader = rand.Reader

// FillRandom fills buf with cryptographically secure random bytes.
// want is the size the call site expects; a buffer of any other size is rejected
// before anything is written.
func FillRandom(buf []byte, want int) error {
	if buf == nil {
		return ErrNullPointer
	}
	if len(buf) != want || want <= 0 {
		return ErrInvalidLength
	}
	if _, err := io.ReadFull(randReader, buf); err != nil {
		return fmt.Errorf("failed to read random bytes: %w", err)
	}
	return nil
}

// GenerateSalt returns a fresh 16-byte salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if err := FillRandom(salt, SaltSize); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// GenerateNonce returns a fresh 12-byte GCM nonce.
func GenerateNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if err := FillRandom(nonce, NonceSize); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// PasswordOptions selects the character classes added on top of lowercase letters.
type PasswordOptions struct {
	Uppercase bool
	Digits    bool
	Special   bool
}

// DefaultPasswordOptions enables every class.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{Uppercase: true, Digits: true, Special: true}
}

// classes returns the selected character classes, lowercase first.
func (o PasswordOptions) classes() []string {
	classes := []string{LowercaseChars}
	if o.Uppercase {
		classes = append(classes, UppercaseChars)
	}
	if o.Digits {
		classes = append(classes, DigitChars)
	}
	if o.Special {
		classes = append(classes, SpecialChars)
	}
	return classes
}

// Charset returns the full alphabet a password is drawn from.
func (o PasswordOptions) Charset() string {
	var charset string
	for _, c := range o.classes() {
		charset += c
	}
	return charset
}

// GeneratePassword returns a random password of the given length.
//
// Every selected class appears at least once: one character is drawn from each
// class, the rest from the combined alphabet, and the positions are shuffled.
// The caller owns the returned slice and should ClearBytes it when done.
func GeneratePassword(length int, opts PasswordOptions) ([]byte, error) {
	if length < MinPasswordLength || length > MaxPasswordLength {
		return nil, ErrInvalidLength
	}

	classes := opts.classes()
	charset := opts.Charset()

	password := make([]byte, length)
	for i := range password {
		alphabet := charset
		if i < len(classes) {
			alphabet = classes[i]
		}
		n, err := randIndex(len(alphabet))
		if err != nil {
			ClearBytes(password)
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		password[i] = alphabet[n]
	}

	// Fisher-Yates so the guaranteed characters do not sit at the front.
	for i := len(password) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			ClearBytes(password)
			return nil, fmt.Errorf("failed to shuffle password: %w", err)
		}
		password[i], password[j] = password[j], password[i]
	}

	return password, nil
}

// randIndex returns a uniform index in [0, n). rand.Int uses rejection
// sampling, so there is no modulo bias.
func randIndex(n int) (int, error) {
	v, err := rand.Int(randReader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
