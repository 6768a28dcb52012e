package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/cryptify/internal/crypto"
)

func TestGenerateSaltAndNonce(t *testing.T) {
	e := New()

	salt, err := e.GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, crypto.SaltSize)

	other, err := e.GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt, other)

	nonce, err := e.GenerateNonce()
	require.NoError(t, err)
	assert.Len(t, nonce, crypto.NonceSize)
}

func TestGeneratePassword(t *testing.T) {
	e := New()

	pw, err := e.GeneratePassword(24, crypto.DefaultPasswordOptions())
	require.NoError(t, err)
	assert.Len(t, pw, 24)
	assert.Equal(t, 24, cap(pw), "terminator must not be reachable through the slice")
	assert.NotContains(t, string(pw), "\x00")

	lower, err := e.GeneratePassword(crypto.MinPasswordLength, crypto.PasswordOptions{})
	require.NoError(t, err)
	for _, c := range lower {
		assert.Contains(t, crypto.LowercaseChars, string(c))
	}

	_, err = e.GeneratePassword(crypto.MinPasswordLength-1, crypto.DefaultPasswordOptions())
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)
	_, err = e.GeneratePassword(crypto.MaxPasswordLength+1, crypto.DefaultPasswordOptions())
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)
}

func TestDeriveKey(t *testing.T) {
	e := New()
	salt := make([]byte, crypto.SaltSize)
	password := []byte("correct horse battery staple")

	key, err := e.DeriveKey(password, salt)
	require.NoError(t, err)
	assert.Len(t, key, crypto.KeySize)

	direct, err := crypto.DeriveKey(password, salt)
	require.NoError(t, err)
	assert.Equal(t, direct, key)

	hash, err := e.HashKeyForStorage(key)
	require.NoError(t, err)
	want, err := crypto.HashForStorage(key)
	require.NoError(t, err)
	assert.Equal(t, want, hash)
}

func TestDeriveKeyRejectsBadInput(t *testing.T) {
	e := New()
	salt := make([]byte, crypto.SaltSize)

	_, err := e.DeriveKey([]byte("pass\x00word"), salt)
	assert.ErrorIs(t, err, crypto.ErrTextEncoding)

	_, err = e.DeriveKey([]byte{0xff, 0xfe}, salt)
	assert.ErrorIs(t, err, crypto.ErrTextEncoding)

	_, err = e.DeriveKey([]byte(""), salt)
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)

	_, err = e.DeriveKey([]byte("password"), salt[:8])
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)

	_, err = e.HashKeyForStorage(make([]byte, 16))
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)
}

func TestEncryptDecrypt(t *testing.T) {
	e := New()
	key := bytes.Repeat([]byte{0x42}, crypto.KeySize)

	for _, plaintext := range [][]byte{nil, {}, []byte("a"), []byte("hunter2"), bytes.Repeat([]byte("x"), 4096)} {
		ct, nonce, err := e.Encrypt(plaintext, key)
		require.NoError(t, err)
		assert.Len(t, ct, len(plaintext)+crypto.TagSize)
		assert.Len(t, nonce, crypto.NonceSize)

		got, err := e.Decrypt(ct, key, nonce)
		require.NoError(t, err)
		assert.Equal(t, len(plaintext), len(got))
		assert.True(t, bytes.Equal(plaintext, got))
	}
}

func TestDecryptFailures(t *testing.T) {
	e := New()
	key := bytes.Repeat([]byte{0x42}, crypto.KeySize)
	ct, nonce, err := e.Encrypt([]byte("secret"), key)
	require.NoError(t, err)

	wrongKey := bytes.Repeat([]byte{0x43}, crypto.KeySize)
	_, err = e.Decrypt(ct, wrongKey, nonce)
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)

	wrongNonce := append([]byte(nil), nonce...)
	wrongNonce[0] ^= 1
	_, err = e.Decrypt(ct, key, wrongNonce)
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)

	tampered := append([]byte(nil), ct...)
	tampered[len(tampered)-1] ^= 0x80
	_, err = e.Decrypt(tampered, key, nonce)
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)

	_, err = e.Decrypt(ct[:crypto.TagSize-1], key, nonce)
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)

	_, err = e.Decrypt(ct, key[:16], nonce)
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)

	_, _, err = e.Encrypt([]byte("x"), key[:31])
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)
}

func TestCompare(t *testing.T) {
	e := New()

	eq, err := e.Compare([]byte("abc"), []byte("abc"))
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = e.Compare([]byte("abc"), []byte("abd"))
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = e.Compare(nil, nil)
	require.NoError(t, err)
	assert.True(t, eq)

	_, err = e.Compare([]byte("ab"), []byte("abc"))
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)
}

func TestVerifyPassword(t *testing.T) {
	e := New()
	salt, err := e.GenerateSalt()
	require.NoError(t, err)

	key, err := e.DeriveKey([]byte("master"), salt)
	require.NoError(t, err)
	hash, err := e.HashKeyForStorage(key)
	require.NoError(t, err)

	got, ok, err := e.VerifyPassword([]byte("master"), salt, hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, key, got)

	got, ok, err = e.VerifyPassword([]byte("Master"), salt, hash)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	_, ok, err = e.VerifyPassword([]byte("master"), salt, hash[:10])
	require.NoError(t, err)
	assert.False(t, ok)
}
