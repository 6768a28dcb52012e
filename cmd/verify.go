package cmd

import (
	"context"
	"fmt"
	"time"
)

// Verify checks the master password and prints vault details
func Verify(ctx context.Context, env *Env) {
	c := unlock(ctx, env)
	defer c.Close()

	info, err := c.Status(ctx)
	if err != nil {
		HandleError(err)
	}

	fmt.Println("password: ok")
	fmt.Printf("Vault:    %s\n", info.Path)
	if info.VaultID != "" {
		fmt.Printf("ID:       %s\n", info.VaultID)
	}
	fmt.Printf("Entries:  %d\n", info.Entries)
	fmt.Printf("KDF:      %s\n", info.KDF)
	fmt.Println("Cipher:   AES-256-GCM")
	fmt.Printf("Created:  %s\n", info.Created.Local().Format(time.DateTime))
	fmt.Printf("Modified: %s\n", info.Modified.Local().Format(time.DateTime))
}
