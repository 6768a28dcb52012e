package keyring

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringRoundTrip(t *testing.T) {
	keyring.MockInit()

	const id = "0b6f5c1e-4d0a-4c55-9a7e-0d2f6b1c9e11"

	if HasPassword(id) {
		t.Fatal("fresh keyring should be empty")
	}
	if _, err := GetPassword(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPassword: got %v, want ErrNotFound", err)
	}

	if err := SavePassword(id, []byte("s3cret")); err != nil {
		t.Fatalf("SavePassword failed: %v", err)
	}
	if !HasPassword(id) {
		t.Error("HasPassword should report the saved entry")
	}
	got, err := GetPassword(id)
	if err != nil {
		t.Fatalf("GetPassword failed: %v", err)
	}
	if string(got) != "s3cret" {
		t.Errorf("got %q, want s3cret", got)
	}
	if HasPassword("other-vault") {
		t.Error("entries must be scoped by vault ID")
	}

	if err := DeletePassword(id); err != nil {
		t.Fatalf("DeletePassword failed: %v", err)
	}
	if err := DeletePassword(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeletePassword: got %v, want ErrNotFound", err)
	}
}
