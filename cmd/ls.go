package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// Ls lists stored services. No password is required.
func Ls(ctx context.Context, env *Env, long, quiet bool) {
	c := env.Vault()
	defer c.Close()

	entries, err := c.List(ctx)
	if err != nil {
		HandleError(err)
	}

	if quiet {
		for _, e := range entries {
			fmt.Println(e.Service)
		}
		return
	}
	if len(entries) == 0 {
		fmt.Println("No entries in vault")
		return
	}

	if !long {
		fmt.Printf("Entries (%d):\n", len(entries))
		for _, e := range entries {
			if e.Username != "" {
				fmt.Printf("  %s (%s)\n", e.Service, e.Username)
			} else {
				fmt.Printf("  %s\n", e.Service)
			}
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tUSERNAME\tURL\tUPDATED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Service, e.Username, e.URL, e.Updated.Local().Format(time.DateTime))
	}
	w.Flush()
}
