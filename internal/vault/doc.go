// Package vault provides the BBolt database behind a cryptify password vault.
//
// The database uses two buckets:
//   - config: format version, timestamps, vault ID, KDF salt and parameters,
//     and the SHA-256 storage hash of the master key (all unencrypted)
//   - entries: one JSON record per service; only the password field is
//     ciphertext, so listing works without the master password
//
// The package never sees a plaintext secret or a key. Sealing and opening
// happen in the core package; vault stores what it is given.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package vault
