// Package keyring caches the master password in the OS keyring, keyed by
// vault ID so several vaults can coexist.
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "cryptify"

// ErrNotFound is returned when no password is stored for a vault.
var ErrNotFound = errors.New("password not found in keyring")

// SavePassword stores a password in the OS keyring
func SavePassword(vaultID string, password []byte) error {
	return keyring.Set(serviceName, vaultID, string(password))
}

// GetPassword retrieves a password from the OS keyring
func GetPassword(vaultID string) ([]byte, error) {
	password, err := keyring.Get(serviceName, vaultID)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(password), nil
}

// DeletePassword removes a password from the OS keyring
func DeletePassword(vaultID string) error {
	err := keyring.Delete(serviceName, vaultID)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// HasPassword checks if a password is stored in the keyring
func HasPassword(vaultID string) bool {
	_, err := keyring.Get(serviceName, vaultID)
	return err == nil
}
