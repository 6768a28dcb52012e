package core

import (
	"errors"

	"github.com/awnumar/memguard"
)

// ErrLocked is returned by operations that need the master key when the
// vault has not been unlocked.
var ErrLocked = errors.New("vault is locked")

// sessionKey keeps the unlocked master key sealed in a memguard Enclave.
// It is decrypted into a locked buffer only for the duration of one call.
type sessionKey struct {
	enclave *memguard.Enclave
}

// newSessionKey seals key and wipes the source bytes.
func newSessionKey(key []byte) *sessionKey {
	return &sessionKey{enclave: memguard.NewBufferFromBytes(key).Seal()}
}

// use opens the enclave and passes the key to fn. The key must not be retained.
func (s *sessionKey) use(fn func(key []byte) error) error {
	if s == nil || s.enclave == nil {
		return ErrLocked
	}
	buf, err := s.enclave.Open()
	if err != nil {
		return ErrLocked
	}
	defer buf.Destroy()
	return fn(buf.Bytes())
}

func (s *sessionKey) destroy() {
	if s != nil {
		s.enclave = nil
	}
}
