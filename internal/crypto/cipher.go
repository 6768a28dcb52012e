package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// newGCM builds an AES-256-GCM AEAD for key.
func newGCM(key []byte) (cipher.AEAD, error) {
	if key == nil {
		return nil, ErrNullPointer
	}
	if len(key) != KeySize {
		return nil, ErrInvalidLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// SealTo encrypts plaintext into dst under a freshly generated nonce and
// returns the nonce, which the caller must store to decrypt later. dst must
// hold at least len(plaintext)+TagSize bytes; the tag is appended.
func SealTo(dst, plaintext, key []byte) ([]byte, error) {
	nonce, err := GenerateNonce()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}
	if err := EncryptTo(dst, plaintext, key, nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}

// EncryptTo seals plaintext under (key, nonce) into dst, which must hold at
// least len(plaintext)+TagSize bytes. The nonce must never have been used with
// key before.
func EncryptTo(dst, plaintext, key, nonce []byte) error {
	if dst == nil || plaintext == nil || nonce == nil {
		return ErrNullPointer
	}
	if len(nonce) != NonceSize {
		return ErrInvalidLength
	}
	if len(dst) < len(plaintext)+TagSize {
		return fmt.Errorf("%w: output buffer holds %d bytes, need %d",
			ErrEncryptionFailed, len(dst), len(plaintext)+TagSize)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return err
	}

	// Seal appends to dst[:0]; capacity is sufficient so no reallocation happens.
	gcm.Seal(dst[:0], nonce, plaintext, nil)
	return nil
}

// DecryptTo verifies ciphertext produced by SealTo and writes the plaintext
// into dst, which must hold at least len(ciphertext)-TagSize bytes. Tampering,
// a wrong key and a wrong nonce all return ErrDecryptionFailed. dst is written
// only after the tag has been verified; on failure it is not touched, so dst
// may alias ciphertext for in-place decryption.
func DecryptTo(dst, ciphertext, key, nonce []byte) error {
	if dst == nil || ciphertext == nil || nonce == nil {
		return ErrNullPointer
	}
	if len(ciphertext) < TagSize || len(nonce) != NonceSize {
		return ErrInvalidLength
	}
	if len(dst) < len(ciphertext)-TagSize {
		return ErrInvalidLength
	}

	gcm, err := newGCM(key)
	if err != nil {
		return err
	}

	scratch := make([]byte, 0, len(ciphertext)-TagSize)
	plaintext, err := gcm.Open(scratch, nonce, ciphertext, nil)
	if err != nil {
		ClearBytes(scratch[:cap(scratch)])
		return ErrDecryptionFailed
	}
	copy(dst, plaintext)
	ClearBytes(plaintext)
	return nil
}
