// Package core provides the cryptify password vault operations.
//
// Core operations include:
//   - Init: Create a vault with a fresh salt and the storage hash of the master key
//   - Unlock/VerifyPassword: Derive the master key and check it against the hash
//   - AddEntry/UpdateEntry/GetEntry: Seal and open per-service credentials
//   - List/Status: Read public entry fields and vault metadata without a password
//   - Remove: Delete entries
//   - ChangePassword: Re-encrypt every entry under a new salt and key
//
// Every cryptographic step goes through the engine package, which drives the
// same entry points the shared library exports. The unlocked master key is
// kept sealed in a memguard enclave between calls.
package core
