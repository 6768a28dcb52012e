package boundary

import (
	"unsafe"

	"github.com/illarion/cryptify/internal/crypto"
)

const (
	// MaxBufferSize bounds every variable-length buffer (plaintext, ciphertext, compare input).
	MaxBufferSize = 1 << 30
	// MaxPasswordBytes bounds the scan for a password's NUL terminator.
	MaxPasswordBytes = 4096
)

// borrow returns a view over n bytes of caller memory at p.
// It must only be called after p and n have been validated.
func borrow(p unsafe.Pointer, n uintptr) []byte {
	return unsafe.Slice((*byte)(p), n)
}

// fixedView validates a buffer whose size is part of the interface contract.
func fixedView(p unsafe.Pointer, n uintptr, want int) ([]byte, error) {
	if p == nil {
		return nil, crypto.ErrNullPointer
	}
	if n != uintptr(want) {
		return nil, crypto.ErrInvalidLength
	}
	return borrow(p, n), nil
}

// rangeView validates a variable-length buffer of at most MaxBufferSize bytes.
func rangeView(p unsafe.Pointer, n uintptr) ([]byte, error) {
	if p == nil {
		return nil, crypto.ErrNullPointer
	}
	if n > MaxBufferSize {
		return nil, crypto.ErrInvalidLength
	}
	return borrow(p, n), nil
}

// cStringView returns the bytes of the NUL-terminated string at p, without
// the terminator. Reading stops at the first NUL, so bytes past the string
// are never touched; a string longer than max is rejected.
func cStringView(p unsafe.Pointer, max int) ([]byte, error) {
	if p == nil {
		return nil, crypto.ErrNullPointer
	}
	for n := 0; n <= max; n++ {
		if *(*byte)(unsafe.Add(p, n)) == 0 {
			return borrow(p, uintptr(n)), nil
		}
	}
	return nil, crypto.ErrInvalidLength
}

func requirePointers(ps ...unsafe.Pointer) error {
	for _, p := range ps {
		if p == nil {
			return crypto.ErrNullPointer
		}
	}
	return nil
}
