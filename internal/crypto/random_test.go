package crypto

import (
	"errors"
	"strings"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy source unavailable") }

func withFailingRandom(t *testing.T) {
	t.Helper()
	prev := randReader
	randReader = failingReader{}
	t.Cleanup(func() { randReader = prev })
}

func TestFillRandomValidation(t *testing.T) {
	if err := FillRandom(nil, SaltSize); !errors.Is(err, ErrNullPointer) {
		t.Errorf("nil buffer: expected ErrNullPointer, got %v", err)
	}
	if err := FillRandom(make([]byte, 15), SaltSize); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("short buffer: expected ErrInvalidLength, got %v", err)
	}
	if err := FillRandom(make([]byte, 13), NonceSize); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("long buffer: expected ErrInvalidLength, got %v", err)
	}
	if err := FillRandom([]byte{}, 0); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("empty buffer: expected ErrInvalidLength, got %v", err)
	}
}

func TestFillRandomReaderFailure(t *testing.T) {
	withFailingRandom(t)

	if err := FillRandom(make([]byte, SaltSize), SaltSize); err == nil {
		t.Fatal("expected error from failing reader")
	}
	if _, err := GenerateSalt(); err == nil {
		t.Fatal("expected GenerateSalt to fail")
	}
	if _, err := GeneratePassword(16, DefaultPasswordOptions()); err == nil {
		t.Fatal("expected GeneratePassword to fail")
	}
}

func TestGenerateSaltUnique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		salt, err := GenerateSalt()
		if err != nil {
			t.Fatalf("GenerateSalt: %v", err)
		}
		if len(salt) != SaltSize {
			t.Fatalf("salt size = %d, want %d", len(salt), SaltSize)
		}
		if _, dup := seen[string(salt)]; dup {
			t.Fatalf("duplicate salt after %d draws", i)
		}
		seen[string(salt)] = struct{}{}
	}
}

func TestGenerateNonceUnique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		nonce, err := GenerateNonce()
		if err != nil {
			t.Fatalf("GenerateNonce: %v", err)
		}
		if len(nonce) != NonceSize {
			t.Fatalf("nonce size = %d, want %d", len(nonce), NonceSize)
		}
		if _, dup := seen[string(nonce)]; dup {
			t.Fatalf("duplicate nonce after %d draws", i)
		}
		seen[string(nonce)] = struct{}{}
	}
}

func TestGeneratePasswordLengthBounds(t *testing.T) {
	for _, n := range []int{-1, 0, 7, 129, 1000} {
		if _, err := GeneratePassword(n, DefaultPasswordOptions()); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("length %d: expected ErrInvalidLength, got %v", n, err)
		}
	}
	for _, n := range []int{MinPasswordLength, 32, MaxPasswordLength} {
		pw, err := GeneratePassword(n, DefaultPasswordOptions())
		if err != nil {
			t.Fatalf("length %d: %v", n, err)
		}
		if len(pw) != n {
			t.Errorf("length %d: got %d characters", n, len(pw))
		}
	}
}

func TestGeneratePasswordClasses(t *testing.T) {
	tests := []struct {
		name string
		opts PasswordOptions
	}{
		{"lowercase only", PasswordOptions{}},
		{"upper", PasswordOptions{Uppercase: true}},
		{"digits", PasswordOptions{Digits: true}},
		{"special", PasswordOptions{Special: true}},
		{"all", DefaultPasswordOptions()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charset := tt.opts.Charset()
			// The shortest length is where a missing class is most likely.
			for i := 0; i < 200; i++ {
				pw, err := GeneratePassword(MinPasswordLength, tt.opts)
				if err != nil {
					t.Fatalf("GeneratePassword: %v", err)
				}
				s := string(pw)
				for _, c := range s {
					if !strings.ContainsRune(charset, c) {
						t.Fatalf("character %q outside charset in %q", c, s)
					}
				}
				for _, class := range tt.opts.classes() {
					if !strings.ContainsAny(s, class) {
						t.Fatalf("password %q has no character from %q", s, class)
					}
				}
			}
		})
	}
}

func TestGeneratePasswordCharset(t *testing.T) {
	opts := PasswordOptions{Digits: true}
	if got, want := opts.Charset(), LowercaseChars+DigitChars; got != want {
		t.Errorf("Charset() = %q, want %q", got, want)
	}
}
