package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/cryptify/internal/core"
	"github.com/illarion/cryptify/internal/crypto"
	"github.com/illarion/cryptify/internal/engine"
)

// GenerateOptions controls generated entry passwords.
type GenerateOptions struct {
	Enabled bool
	Length  int
	crypto.PasswordOptions
}

// entryPassword returns a generated password or prompts for one.
func entryPassword(service string, gen GenerateOptions) ([]byte, error) {
	var password []byte
	var err error
	if gen.Enabled {
		password, err = engine.New().GeneratePassword(gen.Length, gen.PasswordOptions)
	} else {
		password, err = core.ReadPasswordConfirm(fmt.Sprintf("Password for %s: ", service))
	}
	return hold(password), err
}

// Add stores a new credential in the vault
func Add(ctx context.Context, env *Env, in core.NewEntry, gen GenerateOptions) {
	if in.Service == "" {
		Fail("add requires a service name\nUsage: cryptify add [flags] <service>")
	}

	c := unlock(ctx, env)
	defer c.Close()

	password, err := entryPassword(in.Service, gen)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)
	in.Password = password

	if err := c.AddEntry(ctx, in); err != nil {
		HandleError(err)
	}

	if gen.Enabled {
		fmt.Printf("added: %s (generated %d characters)\n", in.Service, len(password))
		return
	}
	fmt.Printf("added: %s\n", in.Service)
}
