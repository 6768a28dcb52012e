package cmd

import (
	"bytes"
	"testing"

	"github.com/illarion/cryptify/internal/core"
)

func zeroed(b []byte) bool {
	return bytes.Equal(b, make([]byte, len(b)))
}

func TestWipeHeldClearsSecrets(t *testing.T) {
	master := hold([]byte("master password"))
	entry := hold([]byte("entry secret"))
	if got := hold(nil); got != nil {
		t.Fatalf("hold(nil) = %v, want nil", got)
	}

	wipeHeld()

	if !zeroed(master) || !zeroed(entry) {
		t.Errorf("held secrets not wiped: %q %q", master, entry)
	}
	if len(secrets.held) != 0 {
		t.Errorf("%d secrets still registered", len(secrets.held))
	}
}

func TestGetPasswordIsWipedOnExit(t *testing.T) {
	t.Setenv(core.PasswordEnv, "from-the-environment")
	t.Cleanup(wipeHeld)

	password, err := GetPassword("unused: ")
	if err != nil {
		t.Fatalf("GetPassword: %v", err)
	}
	if string(password) != "from-the-environment" {
		t.Fatalf("GetPassword = %q", password)
	}

	// Exit runs this before memguard.SafeExit, so an error path that never
	// reaches a deferred ClearBytes still leaves no password behind.
	wipeHeld()
	if !zeroed(password) {
		t.Errorf("password survived exit wipe: %q", password)
	}
}

func TestGetPasswordWithRetryHoldsAcceptedPassword(t *testing.T) {
	t.Setenv(core.PasswordEnv, "right")
	t.Cleanup(wipeHeld)

	env := &Env{}
	password, fromKeyring, err := GetPasswordWithRetry(env, "unused: ", "", func([]byte) error { return nil })
	if err != nil || fromKeyring {
		t.Fatalf("GetPasswordWithRetry: err=%v fromKeyring=%v", err, fromKeyring)
	}

	wipeHeld()
	if !zeroed(password) {
		t.Errorf("password survived exit wipe: %q", password)
	}
}
