// Package crypto provides the cryptographic primitives for cryptify.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from the master password via Argon2id
//   - 12-byte random nonce per encryption, returned separately from the ciphertext
//   - 16-byte authentication tag appended to the ciphertext
//
// Key derivation uses Argon2id with:
//   - 16-byte random salt (stored unencrypted by the host)
//   - time=3, memory=64 MiB, threads=1
//
// A derived key is never persisted. Hosts store HashForStorage(key), a SHA-256
// digest, and verify logins with ConstantTimeCompare.
//
// Memory safety:
//   - Use ClearBytes() to zero keys and plaintext after use
//   - Every function that allocates a temporary secret wipes it before returning
package crypto
