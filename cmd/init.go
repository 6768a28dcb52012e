package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/illarion/cryptify/internal/core"
	"github.com/illarion/cryptify/internal/crypto"
	"github.com/illarion/cryptify/internal/keyring"
)

// Init creates a new vault at the configured path
func Init(ctx context.Context, env *Env, saveToKeyring bool) {
	c := env.Vault()
	defer c.Close()

	if _, err := os.Stat(c.Path()); err == nil {
		HandleError(core.ErrAlreadyExists)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path()), 0700); err != nil {
		HandleError(fmt.Errorf("failed to create vault directory: %w", err))
	}

	password, err := GetPasswordForInit()
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	if err := c.Init(ctx, password); err != nil {
		HandleError(err)
	}
	fmt.Printf("initialized vault: %s\n", c.Path())

	if saveToKeyring {
		vaultID, err := c.GetOrCreateVaultID()
		if err == nil {
			err = keyring.SavePassword(vaultID, password)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save to keyring: %s\n", err)
			return
		}
		fmt.Println("Password saved to keyring")
	}
}
