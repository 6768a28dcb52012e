// Command libcryptify builds the cryptify C shared library.
//
//	go build -buildmode=c-shared -o libcryptify.so ./cmd/libcryptify
//
// The build also writes libcryptify.h with the prototypes below. Every export
// returns 0 on success or a negative status code; see internal/boundary.
package main

/*
#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/illarion/cryptify/internal/boundary"
	"github.com/illarion/cryptify/internal/logging"
)

var version = C.CString(boundary.Version)

func init() {
	// Diagnostics go to stderr only when the host asks for them.
	if lvl := os.Getenv("CRYPTIFY_LOG_LEVEL"); lvl != "" {
		level, err := logging.ParseLevel(lvl)
		if err == nil {
			boundary.SetLogger(logging.New(os.Stderr, level))
		}
	}
}

// sizeCell reinterprets a size_t* as *uintptr; both are pointer-sized on every
// platform cgo supports.
func sizeCell(p *C.size_t) *uintptr {
	return (*uintptr)(unsafe.Pointer(p))
}

//export cryptify_version
func cryptify_version() *C.char {
	return version
}

//export cryptify_generate_salt
func cryptify_generate_salt(saltOut *C.uint8_t, saltLen C.size_t) C.int32_t {
	return C.int32_t(boundary.GenerateSalt(unsafe.Pointer(saltOut), uintptr(saltLen)))
}

//export cryptify_generate_nonce
func cryptify_generate_nonce(nonceOut *C.uint8_t, nonceLen C.size_t) C.int32_t {
	return C.int32_t(boundary.GenerateNonce(unsafe.Pointer(nonceOut), uintptr(nonceLen)))
}

//export cryptify_generate_password
func cryptify_generate_password(length C.size_t, upper, digits, special C.bool, passwordOut *C.char, bufferLen C.size_t) C.int32_t {
	return C.int32_t(boundary.GeneratePassword(
		uintptr(length), bool(upper), bool(digits), bool(special),
		unsafe.Pointer(passwordOut), uintptr(bufferLen),
	))
}

//export cryptify_derive_key
func cryptify_derive_key(password *C.char, salt *C.uint8_t, saltLen C.size_t, keyOut *C.uint8_t, keyLen C.size_t) C.int32_t {
	return C.int32_t(boundary.DeriveKey(
		unsafe.Pointer(password),
		unsafe.Pointer(salt), uintptr(saltLen),
		unsafe.Pointer(keyOut), uintptr(keyLen),
	))
}

//export cryptify_hash_key_for_storage
func cryptify_hash_key_for_storage(key *C.uint8_t, keyLen C.size_t, hashOut *C.uint8_t, hashLen C.size_t) C.int32_t {
	return C.int32_t(boundary.HashKeyForStorage(
		unsafe.Pointer(key), uintptr(keyLen),
		unsafe.Pointer(hashOut), uintptr(hashLen),
	))
}

//export cryptify_encrypt
func cryptify_encrypt(
	plaintext *C.uint8_t, plaintextLen C.size_t,
	key *C.uint8_t, keyLen C.size_t,
	ciphertextOut *C.uint8_t, ciphertextLen *C.size_t,
	nonceOut *C.uint8_t, nonceLen C.size_t,
) C.int32_t {
	return C.int32_t(boundary.Encrypt(
		unsafe.Pointer(plaintext), uintptr(plaintextLen),
		unsafe.Pointer(key), uintptr(keyLen),
		unsafe.Pointer(ciphertextOut), sizeCell(ciphertextLen),
		unsafe.Pointer(nonceOut), uintptr(nonceLen),
	))
}

//export cryptify_decrypt
func cryptify_decrypt(
	ciphertext *C.uint8_t, ciphertextLen C.size_t,
	key *C.uint8_t, keyLen C.size_t,
	nonce *C.uint8_t, nonceLen C.size_t,
	plaintextOut *C.uint8_t, plaintextLen *C.size_t,
) C.int32_t {
	return C.int32_t(boundary.Decrypt(
		unsafe.Pointer(ciphertext), uintptr(ciphertextLen),
		unsafe.Pointer(key), uintptr(keyLen),
		unsafe.Pointer(nonce), uintptr(nonceLen),
		unsafe.Pointer(plaintextOut), sizeCell(plaintextLen),
	))
}

//export cryptify_constant_time_compare
func cryptify_constant_time_compare(a, b *C.uint8_t, length C.size_t) C.int32_t {
	return C.int32_t(boundary.ConstantTimeCompare(unsafe.Pointer(a), unsafe.Pointer(b), uintptr(length)))
}

func main() {}
