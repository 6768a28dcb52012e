package core

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/illarion/cryptify/internal/crypto"
)

// PasswordEnv names the environment variable consulted before prompting.
const PasswordEnv = "CRYPTIFY_PASSWORD"

// ReadPassword reads a password from the terminal without echoing
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm(prompt string) ([]byte, error) {
	password1, err := ReadPassword(prompt)
	if err != nil {
		return nil, err
	}

	password2, err := ReadPassword("Confirm password: ")
	if err != nil {
		crypto.ClearBytes(password1)
		return nil, err
	}

	if !crypto.Equal(password1, password2) {
		crypto.ClearAll(password1, password2)
		return nil, fmt.Errorf("passwords do not match")
	}
	crypto.ClearBytes(password2)
	return password1, nil
}

// GetPasswordFromEnv reads the master password from CRYPTIFY_PASSWORD.
func GetPasswordFromEnv() []byte {
	password := os.Getenv(PasswordEnv)
	if password == "" {
		return nil
	}
	return []byte(password)
}

// IsTerminal reports whether stdin is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
