package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/illarion/cryptify/internal/config"
	"github.com/illarion/cryptify/internal/core"
	"github.com/illarion/cryptify/internal/crypto"
	"github.com/illarion/cryptify/internal/keyring"
	"github.com/illarion/cryptify/internal/logging"
)

// Env carries what every command needs.
type Env struct {
	Config *config.Config
	Log    logging.Logger
}

// Vault returns a Cryptify for the configured vault file.
func (e *Env) Vault() *core.Cryptify {
	return core.New(e.Config.VaultPath, e.Log)
}

var secrets struct {
	sync.Mutex
	held [][]byte
}

// hold registers a plain-slice secret, such as a password read from the
// terminal, so that Exit wipes it even when deferred clears never run.
func hold(b []byte) []byte {
	if len(b) == 0 {
		return b
	}
	secrets.Lock()
	secrets.held = append(secrets.held, b)
	secrets.Unlock()
	return b
}

// wipeHeld clears every secret passed to hold.
func wipeHeld() {
	secrets.Lock()
	defer secrets.Unlock()
	crypto.ClearAll(secrets.held...)
	secrets.held = nil
}

// Exit wipes held secrets and every memguard-managed buffer, then exits with code.
func Exit(code int) {
	wipeHeld()
	memguard.SafeExit(code)
}

// GetPassword retrieves password from environment or prompts user
// The caller is responsible for calling crypto.ClearBytes on the returned password
func GetPassword(prompt string) ([]byte, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		return hold(password), nil
	}

	password, err := core.ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	return hold(password), nil
}

// GetPasswordForInit retrieves password for init command
// Checks environment variable first, then prompts with confirmation
func GetPasswordForInit() ([]byte, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		return hold(password), nil
	}
	password, err := core.ReadPasswordConfirm("Enter master password: ")
	return hold(password), err
}

// GetPasswordWithRetry finds the master password and passes it to accept,
// which normally unlocks the vault. The environment wins, then the OS
// keyring if enabled, then an interactive prompt. A keyring password that
// accept rejects is reported as stale and the user is prompted instead.
// It returns the accepted password and whether it came from the keyring.
func GetPasswordWithRetry(env *Env, prompt, vaultID string, accept func([]byte) error) ([]byte, bool, error) {
	if password := hold(core.GetPasswordFromEnv()); password != nil {
		if err := accept(password); err != nil {
			crypto.ClearBytes(password)
			return nil, false, err
		}
		return password, false, nil
	}

	if env.Config.UseKeyring && vaultID != "" {
		password, err := keyring.GetPassword(vaultID)
		hold(password)
		switch {
		case err == nil:
			if err := accept(password); err == nil {
				return password, true, nil
			} else if !errors.Is(err, core.ErrWrongPassword) {
				crypto.ClearBytes(password)
				return nil, false, err
			}
			crypto.ClearBytes(password)
			fmt.Fprintln(os.Stderr, "warning: password in keyring is stale, run 'cryptify keyring save' to update it")
		case !errors.Is(err, keyring.ErrNotFound):
			env.Log.Debug(context.Background(), "keyring unavailable", "error", err)
		}
	}

	password, err := core.ReadPassword(prompt)
	if err != nil {
		return nil, false, err
	}
	hold(password)
	if err := accept(password); err != nil {
		crypto.ClearBytes(password)
		return nil, false, err
	}
	return password, false, nil
}

// unlock opens the vault and unlocks it, exiting on failure.
func unlock(ctx context.Context, env *Env) *core.Cryptify {
	c := env.Vault()
	vaultID, _ := c.GetVaultID()

	password, _, err := GetPasswordWithRetry(env, "Enter master password: ", vaultID, func(p []byte) error {
		return c.Unlock(ctx, p)
	})
	if err != nil {
		HandleError(err)
	}
	crypto.ClearBytes(password)
	return c
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: vault not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'cryptify init' first\n")
	case errors.Is(err, core.ErrAlreadyExists):
		fmt.Fprintf(os.Stderr, "Error: vault already exists\n")
		fmt.Fprintf(os.Stderr, "Use 'cryptify verify' to check it\n")
	case errors.Is(err, core.ErrWrongPassword):
		fmt.Fprintf(os.Stderr, "Error: wrong password\n")
	case errors.Is(err, core.ErrEntryNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'cryptify ls' to see stored services\n")
	case errors.Is(err, core.ErrEntryExists):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'cryptify edit' to change it\n")
	case errors.Is(err, crypto.ErrDecryptionFailed):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The vault file may be corrupted or tampered with\n")
	case errors.Is(err, crypto.ErrTextEncoding):
		fmt.Fprintf(os.Stderr, "Error: password is not valid UTF-8\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	Exit(1)
}

// Fail prints a usage error and exits.
func Fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	Exit(1)
}
