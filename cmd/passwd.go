package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/cryptify/internal/core"
	"github.com/illarion/cryptify/internal/crypto"
	"github.com/illarion/cryptify/internal/keyring"
)

// Passwd changes the master password
func Passwd(ctx context.Context, env *Env) {
	c := env.Vault()
	defer c.Close()

	vaultID, _ := c.GetVaultID()

	currentPassword, fromKeyring, err := GetPasswordWithRetry(env, "Enter current password: ", vaultID, c.VerifyPassword)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(currentPassword)

	newPassword, err := core.ReadPasswordConfirm("Enter new password: ")
	hold(newPassword)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(newPassword)

	if err := c.ChangePassword(ctx, currentPassword, newPassword); err != nil {
		HandleError(err)
	}

	// Keep the keyring in step when it held the old password
	if vaultID != "" && (fromKeyring || keyring.HasPassword(vaultID)) {
		if err := keyring.SavePassword(vaultID, newPassword); err == nil {
			fmt.Println("Keyring updated with new password")
		}
	}

	// Compact database after rewriting all data
	if err := c.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}

	fmt.Println("password changed successfully")
}
