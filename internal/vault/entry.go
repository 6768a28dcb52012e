package vault

import (
	"strings"
	"time"
)

// Entry is one stored credential. Password holds AES-256-GCM ciphertext with
// the tag appended; Nonce is the nonce it was sealed with.
type Entry struct {
	Service  string    `json:"service"`
	Username string    `json:"username"`
	Password []byte    `json:"password"`
	Nonce    []byte    `json:"nonce"`
	URL      string    `json:"url,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
}

// Public returns a copy of e without the sealed password, for listings.
func (e Entry) Public() Entry {
	e.Password = nil
	e.Nonce = nil
	return e
}

// NormalizeService trims surrounding whitespace; service names are the
// entry key and compared exactly otherwise.
func NormalizeService(service string) string {
	return strings.TrimSpace(service)
}
