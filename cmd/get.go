package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/illarion/cryptify/internal/core"
)

// Get prints the password stored for service. With all set, every field is printed.
func Get(ctx context.Context, env *Env, service string, all bool) {
	if service == "" {
		Fail("get requires a service name\nUsage: cryptify get [-all] <service>")
	}

	c := unlock(ctx, env)
	defer c.Close()

	cred, err := c.GetEntry(ctx, service)
	if err != nil {
		HandleError(err)
	}
	hold(cred.Secret)
	defer cred.Wipe()

	if !all {
		os.Stdout.Write(cred.Secret)
		if core.IsTerminal() {
			fmt.Println()
		}
		return
	}

	fmt.Printf("Service:  %s\n", cred.Service)
	fmt.Printf("Username: %s\n", cred.Username)
	fmt.Printf("Password: %s\n", cred.Secret)
	if cred.URL != "" {
		fmt.Printf("URL:      %s\n", cred.URL)
	}
	if cred.Notes != "" {
		fmt.Printf("Notes:    %s\n", cred.Notes)
	}
	fmt.Printf("Created:  %s\n", cred.Created.Local().Format(time.DateTime))
	fmt.Printf("Updated:  %s\n", cred.Updated.Local().Format(time.DateTime))
}
