package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/cryptify/internal/crypto"
	"github.com/illarion/cryptify/internal/engine"
)

// GenPass prints count random passwords. It does not touch the vault.
func GenPass(gen GenerateOptions, count int) {
	if count < 1 {
		Fail("count must be at least 1")
	}
	e := engine.New()
	for i := 0; i < count; i++ {
		password, err := e.GeneratePassword(gen.Length, gen.PasswordOptions)
		if err != nil {
			HandleError(fmt.Errorf("length must be between %d and %d: %w",
				crypto.MinPasswordLength, crypto.MaxPasswordLength, err))
		}
		os.Stdout.Write(password)
		fmt.Println()
		crypto.ClearBytes(password)
	}
}
