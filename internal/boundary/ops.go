package boundary

import (
	"unsafe"

	"github.com/illarion/cryptify/internal/crypto"
)

// Version is reported by the shared library.
const Version = "cryptify 1.0.0 (argon2id t=3 m=64MiB p=1, aes-256-gcm, sha-256)"

const (
	opGenerateSalt     = "generate_salt"
	opGenerateNonce    = "generate_nonce"
	opGeneratePassword = "generate_password"
	opDeriveKey        = "derive_key"
	opHashKey          = "hash_key_for_storage"
	opEncrypt          = "encrypt"
	opDecrypt          = "decrypt"
	opCompare          = "constant_time_compare"
)

// GenerateSalt fills the 16-byte buffer at out with random bytes.
func GenerateSalt(out unsafe.Pointer, outLen uintptr) Status {
	return guard(opGenerateSalt, StatusKeyDerivationFailed, func() error {
		dst, err := fixedView(out, outLen, crypto.SaltSize)
		if err != nil {
			return err
		}
		salt, err := crypto.GenerateSalt()
		if err != nil {
			return err
		}
		copy(dst, salt)
		return nil
	})
}

// GenerateNonce fills the 12-byte buffer at out with random bytes.
func GenerateNonce(out unsafe.Pointer, outLen uintptr) Status {
	return guard(opGenerateNonce, StatusEncryptionFailed, func() error {
		dst, err := fixedView(out, outLen, crypto.NonceSize)
		if err != nil {
			return err
		}
		nonce, err := crypto.GenerateNonce()
		if err != nil {
			return err
		}
		copy(dst, nonce)
		return nil
	})
}

// GeneratePassword writes a NUL-terminated random password of length
// characters to out, which must hold at least length+1 bytes.
func GeneratePassword(length uintptr, upper, digits, special bool, out unsafe.Pointer, outLen uintptr) Status {
	return guard(opGeneratePassword, StatusEncryptionFailed, func() error {
		if out == nil {
			return crypto.ErrNullPointer
		}
		if length < crypto.MinPasswordLength || length > crypto.MaxPasswordLength || outLen < length+1 {
			return crypto.ErrInvalidLength
		}

		password, err := crypto.GeneratePassword(int(length), crypto.PasswordOptions{
			Uppercase: upper,
			Digits:    digits,
			Special:   special,
		})
		if err != nil {
			return err
		}
		defer crypto.ClearBytes(password)

		dst := borrow(out, length+1)
		copy(dst, password)
		dst[length] = 0
		return nil
	})
}

// DeriveKey derives a 32-byte key from the NUL-terminated UTF-8 password and
// the 16-byte salt, writing it to keyOut.
func DeriveKey(password, salt unsafe.Pointer, saltLen uintptr, keyOut unsafe.Pointer, keyLen uintptr) Status {
	return guard(opDeriveKey, StatusKeyDerivationFailed, func() error {
		if err := requirePointers(password, salt, keyOut); err != nil {
			return err
		}
		saltView, err := fixedView(salt, saltLen, crypto.SaltSize)
		if err != nil {
			return err
		}
		keyView, err := fixedView(keyOut, keyLen, crypto.KeySize)
		if err != nil {
			return err
		}
		passwordView, err := cStringView(password, MaxPasswordBytes)
		if err != nil {
			return err
		}

		key, err := crypto.DeriveKey(passwordView, saltView)
		if err != nil {
			return err
		}
		defer crypto.ClearBytes(key)

		copy(keyView, key)
		return nil
	})
}

// HashKeyForStorage writes the 32-byte storage hash of the 32-byte key to hashOut.
func HashKeyForStorage(key unsafe.Pointer, keyLen uintptr, hashOut unsafe.Pointer, hashLen uintptr) Status {
	return guard(opHashKey, StatusKeyDerivationFailed, func() error {
		if err := requirePointers(key, hashOut); err != nil {
			return err
		}
		keyView, err := fixedView(key, keyLen, crypto.KeySize)
		if err != nil {
			return err
		}
		hashView, err := fixedView(hashOut, hashLen, crypto.HashSize)
		if err != nil {
			return err
		}

		hash, err := crypto.HashForStorage(keyView)
		if err != nil {
			return err
		}
		copy(hashView, hash)
		return nil
	})
}

// Encrypt seals plaintext under key with a fresh nonce.
//
// ciphertextLen is in/out: it holds the capacity of ciphertextOut on entry
// and the number of bytes written (plaintextLen+16) on success. When the
// capacity is too small the call fails with StatusEncryptionFailed and
// ciphertextLen is set to the required size. The nonce is written to nonceOut.
func Encrypt(
	plaintext unsafe.Pointer, plaintextLen uintptr,
	key unsafe.Pointer, keyLen uintptr,
	ciphertextOut unsafe.Pointer, ciphertextLen *uintptr,
	nonceOut unsafe.Pointer, nonceLen uintptr,
) Status {
	return guard(opEncrypt, StatusEncryptionFailed, func() error {
		if err := requirePointers(plaintext, key, ciphertextOut, unsafe.Pointer(ciphertextLen), nonceOut); err != nil {
			return err
		}
		keyView, err := fixedView(key, keyLen, crypto.KeySize)
		if err != nil {
			return err
		}
		nonceView, err := fixedView(nonceOut, nonceLen, crypto.NonceSize)
		if err != nil {
			return err
		}
		plaintextView, err := rangeView(plaintext, plaintextLen)
		if err != nil {
			return err
		}

		need := plaintextLen + crypto.TagSize
		if *ciphertextLen < need {
			*ciphertextLen = need
			return crypto.ErrEncryptionFailed
		}
		ciphertextView := borrow(ciphertextOut, need)

		nonce, err := crypto.SealTo(ciphertextView, plaintextView, keyView)
		if err != nil {
			return err
		}

		copy(nonceView, nonce)
		*ciphertextLen = need
		return nil
	})
}

// Decrypt verifies and opens ciphertext under (key, nonce).
//
// plaintextLen is in/out: capacity of plaintextOut on entry, bytes written
// (ciphertextLen-16) on success. Plaintext is released only after the
// authentication tag verifies; on failure plaintextOut is left as it was.
// plaintextOut may point at ciphertext.
func Decrypt(
	ciphertext unsafe.Pointer, ciphertextLen uintptr,
	key unsafe.Pointer, keyLen uintptr,
	nonce unsafe.Pointer, nonceLen uintptr,
	plaintextOut unsafe.Pointer, plaintextLen *uintptr,
) Status {
	return guard(opDecrypt, StatusDecryptionFailed, func() error {
		if err := requirePointers(ciphertext, key, nonce, plaintextOut, unsafe.Pointer(plaintextLen)); err != nil {
			return err
		}
		keyView, err := fixedView(key, keyLen, crypto.KeySize)
		if err != nil {
			return err
		}
		nonceView, err := fixedView(nonce, nonceLen, crypto.NonceSize)
		if err != nil {
			return err
		}
		if ciphertextLen < crypto.TagSize || ciphertextLen > MaxBufferSize+crypto.TagSize {
			return crypto.ErrInvalidLength
		}
		need := ciphertextLen - crypto.TagSize
		if *plaintextLen < need {
			return crypto.ErrInvalidLength
		}
		ciphertextView := borrow(ciphertext, ciphertextLen)
		plaintextView := borrow(plaintextOut, need)

		if err := crypto.DecryptTo(plaintextView, ciphertextView, keyView, nonceView); err != nil {
			return err
		}
		*plaintextLen = need
		return nil
	})
}

// ConstantTimeCompare compares n bytes at a and b without an early exit.
// It returns CompareEqual (0) when they match, CompareDifferent when they
// do not, and the operation's Status on invalid input.
func ConstantTimeCompare(a, b unsafe.Pointer, n uintptr) int32 {
	result := CompareDifferent
	status := guard(opCompare, StatusInvalidLength, func() error {
		if err := requirePointers(a, b); err != nil {
			return err
		}
		aView, err := rangeView(a, n)
		if err != nil {
			return err
		}
		bView, err := rangeView(b, n)
		if err != nil {
			return err
		}

		equal, err := crypto.ConstantTimeCompare(aView, bView)
		if err != nil {
			return err
		}
		if equal {
			result = CompareEqual
		}
		return nil
	})
	if status != StatusOK {
		return int32(status)
	}
	return result
}
