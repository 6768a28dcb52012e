package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/cryptify/internal/core"
	"github.com/illarion/cryptify/internal/crypto"
	"github.com/illarion/cryptify/internal/keyring"
)

// KeyringSave saves the master password to the OS keyring
func KeyringSave(ctx context.Context, env *Env) {
	c := env.Vault()
	defer c.Close()

	password, err := GetPassword("Enter master password: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	if err := c.VerifyPassword(password); err != nil {
		HandleError(err)
	}

	vaultID, err := c.GetOrCreateVaultID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(vaultID, password); err != nil {
		HandleError(fmt.Errorf("failed to save to keyring: %w", err))
	}
	env.Log.Info(ctx, "keyring entry saved", "vault_id", vaultID)
	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the master password from the OS keyring
func KeyringDelete(ctx context.Context, env *Env) {
	c := env.Vault()
	defer c.Close()

	vaultID, err := c.GetVaultID()
	if err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(vaultID); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}
	env.Log.Info(ctx, "keyring entry deleted", "vault_id", vaultID)
	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored in the keyring
func KeyringStatus(env *Env) {
	c := env.Vault()
	defer c.Close()

	vaultID, err := c.GetVaultID()
	if err != nil {
		if err == core.ErrNotInitialized {
			HandleError(err)
		}
		fmt.Println("Password: not stored")
		return
	}

	if keyring.HasPassword(vaultID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
	if !env.Config.UseKeyring {
		fmt.Println("Keyring lookup is disabled (CRYPTIFY_KEYRING=false)")
	}
}
