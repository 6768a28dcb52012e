package cmd

import (
	"context"
	"fmt"
	"os"
)

// Remove deletes entries from the vault
func Remove(ctx context.Context, env *Env, services []string) {
	if len(services) == 0 {
		Fail("rm requires at least one service\nUsage: cryptify rm <service> [service...]")
	}

	c := unlock(ctx, env)
	defer c.Close()

	if err := c.Remove(ctx, services); err != nil {
		HandleError(err)
	}
	for _, s := range services {
		fmt.Printf("removed: %s\n", s)
	}

	// Compact database to reclaim space
	if err := c.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}
}
