package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/cryptify/internal/core"
	"github.com/illarion/cryptify/internal/crypto"
)

// Edit changes fields of an existing credential. changePassword prompts for
// (or generates) a new password.
func Edit(ctx context.Context, env *Env, service string, upd core.EntryUpdate, changePassword bool, gen GenerateOptions) {
	if service == "" {
		Fail("edit requires a service name\nUsage: cryptify edit [flags] <service>")
	}
	if !changePassword && !gen.Enabled && upd.Username == nil && upd.URL == nil && upd.Notes == nil {
		Fail("nothing to change")
	}

	c := unlock(ctx, env)
	defer c.Close()

	if changePassword || gen.Enabled {
		password, err := entryPassword(service, gen)
		if err != nil {
			HandleError(err)
		}
		defer crypto.ClearBytes(password)
		upd.Password = password
	}

	if err := c.UpdateEntry(ctx, service, upd); err != nil {
		HandleError(err)
	}
	fmt.Printf("updated: %s\n", service)
}
