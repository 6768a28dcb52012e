package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/illarion/cryptify/internal/crypto"
	"github.com/illarion/cryptify/internal/engine"
	"github.com/illarion/cryptify/internal/logging"
	"github.com/illarion/cryptify/internal/vault"
)

const (
	DefaultVaultFile = "vault.cryptify"
	FilePermSecure   = 0600 // File: owner rw only
)

var (
	ErrNotInitialized    = errors.New("vault not initialized")
	ErrAlreadyExists     = errors.New("vault already exists")
	ErrWrongPassword     = errors.New("wrong password")
	ErrPasswordRequired  = errors.New("password required")
	ErrServiceRequired   = errors.New("service name required")
	ErrUnsupportedParams = errors.New("vault uses unsupported key derivation parameters")

	ErrEntryExists   = vault.ErrEntryExists
	ErrEntryNotFound = vault.ErrEntryNotFound
)

// Cryptify manages a single-master password vault file.
//
// Operations that read or write secrets require Unlock first; List and the
// vault ID helpers work on a locked vault.
type Cryptify struct {
	path   string
	engine *engine.Engine
	log    logging.Logger
	key    *sessionKey
}

// New returns a Cryptify for the vault file at path. A nil logger discards output.
func New(path string, log logging.Logger) *Cryptify {
	if log == nil {
		log = logging.Discard()
	}
	return &Cryptify{
		path:   path,
		engine: engine.New(),
		log:    log.With("vault", path),
	}
}

// Path returns the vault file path.
func (c *Cryptify) Path() string {
	return c.path
}

// Close locks the vault, dropping the session key.
func (c *Cryptify) Close() error {
	c.Lock()
	return nil
}

// open opens an initialized vault database.
func (c *Cryptify) open() (*vault.Storage, error) {
	if _, err := os.Stat(c.path); err != nil {
		return nil, ErrNotInitialized
	}
	db, err := vault.Open(c.path)
	if err != nil {
		return nil, err
	}
	ok, err := db.IsInitialized()
	if err != nil || !ok {
		db.Close()
		return nil, ErrNotInitialized
	}
	return db, nil
}

// Init creates a new vault protected by password.
func (c *Cryptify) Init(ctx context.Context, password []byte) (err error) {
	if len(password) == 0 {
		return ErrPasswordRequired
	}
	if _, err := os.Stat(c.path); err == nil {
		return ErrAlreadyExists
	}

	db, err := vault.Open(c.path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer func() {
		db.Close()
		if err != nil {
			os.Remove(c.path)
		}
	}()

	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	salt, err := c.engine.GenerateSalt()
	if err != nil {
		return err
	}
	key, err := c.engine.DeriveKey(password, salt)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(key)

	hash, err := c.engine.HashKeyForStorage(key)
	if err != nil {
		return err
	}

	if err := db.Rekey(salt, crypto.DefaultKDFParams(), hash, nil); err != nil {
		return fmt.Errorf("failed to store key material: %w", err)
	}
	if _, err := db.GetOrCreateVaultID(); err != nil {
		return err
	}

	c.log.Info(ctx, "vault initialized", "kdf", crypto.DefaultKDFParams().String())
	return nil
}

// deriveVerified derives the master key for password and checks it against
// the stored hash. The caller owns the returned key.
func (c *Cryptify) deriveVerified(db *vault.Storage, password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrPasswordRequired
	}
	params, err := db.GetKDFParams()
	if err != nil {
		return nil, fmt.Errorf("failed to read kdf parameters: %w", err)
	}
	if params != crypto.DefaultKDFParams() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedParams, params)
	}
	salt, err := db.GetSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}
	stored, err := db.GetMasterHash()
	if err != nil {
		return nil, fmt.Errorf("failed to read master hash: %w", err)
	}

	key, ok, err := c.engine.VerifyPassword(password, salt, stored)
	if err != nil {
		if errors.Is(err, crypto.ErrTextEncoding) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	if !ok {
		return nil, ErrWrongPassword
	}
	return key, nil
}

// VerifyPassword checks if the password is correct for this vault
func (c *Cryptify) VerifyPassword(password []byte) error {
	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	key, err := c.deriveVerified(db, password)
	if err != nil {
		return err
	}
	crypto.ClearBytes(key)
	return nil
}

// Unlock verifies password and keeps the master key for later calls.
func (c *Cryptify) Unlock(ctx context.Context, password []byte) error {
	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	key, err := c.deriveVerified(db, password)
	if err != nil {
		c.log.Warn(ctx, "unlock failed", "error", err)
		return err
	}
	c.key.destroy()
	c.key = newSessionKey(key)
	c.log.Debug(ctx, "vault unlocked")
	return nil
}

// Lock drops the session key.
func (c *Cryptify) Lock() {
	c.key.destroy()
	c.key = nil
}

// IsUnlocked reports whether a session key is held.
func (c *Cryptify) IsUnlocked() bool {
	return c.key != nil && c.key.enclave != nil
}

// NewEntry describes a credential to add. Password is sealed and not retained.
type NewEntry struct {
	Service  string
	Username string
	Password []byte
	URL      string
	Notes    string
}

// AddEntry seals and stores a new credential. The service must not exist yet.
func (c *Cryptify) AddEntry(ctx context.Context, in NewEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	service := vault.NormalizeService(in.Service)
	if service == "" {
		return ErrServiceRequired
	}
	if len(in.Password) == 0 {
		return ErrPasswordRequired
	}

	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	var sealed, nonce []byte
	err = c.key.use(func(key []byte) error {
		sealed, nonce, err = c.engine.Encrypt(in.Password, key)
		return err
	})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	entry := vault.Entry{
		Service:  service,
		Username: in.Username,
		Password: sealed,
		Nonce:    nonce,
		URL:      in.URL,
		Notes:    in.Notes,
		Created:  now,
		Updated:  now,
	}
	if err := db.AddEntry(entry); err != nil {
		return err
	}
	if err := db.UpdateModified(); err != nil {
		c.log.Warn(ctx, "failed to update modification time", "error", err)
	}

	c.log.Info(ctx, "entry added", "service", service)
	return nil
}

// EntryUpdate lists the fields to change; nil fields are left as they are.
type EntryUpdate struct {
	Username *string
	Password []byte
	URL      *string
	Notes    *string
}

// UpdateEntry changes an existing credential. A new password is sealed under
// a fresh nonce.
func (c *Cryptify) UpdateEntry(ctx context.Context, service string, upd EntryUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	service = vault.NormalizeService(service)

	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := db.GetEntry(service)
	if err != nil {
		return err
	}

	if upd.Password != nil {
		if len(upd.Password) == 0 {
			return ErrPasswordRequired
		}
		err = c.key.use(func(key []byte) error {
			entry.Password, entry.Nonce, err = c.engine.Encrypt(upd.Password, key)
			return err
		})
		if err != nil {
			return err
		}
	} else if !c.IsUnlocked() {
		return ErrLocked
	}
	if upd.Username != nil {
		entry.Username = *upd.Username
	}
	if upd.URL != nil {
		entry.URL = *upd.URL
	}
	if upd.Notes != nil {
		entry.Notes = *upd.Notes
	}
	entry.Updated = time.Now().UTC()

	if err := db.PutEntry(*entry); err != nil {
		return err
	}
	if err := db.UpdateModified(); err != nil {
		c.log.Warn(ctx, "failed to update modification time", "error", err)
	}

	c.log.Info(ctx, "entry updated", "service", service, "password_changed", upd.Password != nil)
	return nil
}

// Credential is a decrypted entry. Call Wipe when done with it.
type Credential struct {
	vault.Entry
	Secret []byte
}

// Wipe clears the decrypted password.
func (cr *Credential) Wipe() {
	crypto.ClearBytes(cr.Secret)
	cr.Secret = nil
}

// GetEntry decrypts the credential stored for service.
func (c *Cryptify) GetEntry(ctx context.Context, service string) (*Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	service = vault.NormalizeService(service)

	db, err := c.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	entry, err := db.GetEntry(service)
	if err != nil {
		return nil, err
	}

	var secret []byte
	err = c.key.use(func(key []byte) error {
		secret, err = c.engine.Decrypt(entry.Password, key, entry.Nonce)
		return err
	})
	if err != nil {
		if errors.Is(err, crypto.ErrDecryptionFailed) {
			c.log.Error(ctx, "entry failed authentication", "service", service)
			return nil, fmt.Errorf("%s: %w", service, err)
		}
		return nil, err
	}

	c.log.Debug(ctx, "entry decrypted", "service", service)
	return &Credential{Entry: entry.Public(), Secret: secret}, nil
}

// List returns every entry without its sealed password. It does not need
// the master password.
func (c *Cryptify) List(ctx context.Context) ([]vault.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db, err := c.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	entries, err := db.ListEntries()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i] = entries[i].Public()
	}
	return entries, nil
}

// Remove deletes the entries for services. Every name must exist; nothing is
// removed otherwise.
func (c *Cryptify) Remove(ctx context.Context, services []string) error {
	if !c.IsUnlocked() {
		return ErrLocked
	}
	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	names := make([]string, len(services))
	for i, s := range services {
		names[i] = vault.NormalizeService(s)
		if _, err := db.GetEntry(names[i]); err != nil {
			return fmt.Errorf("%s: %w", names[i], err)
		}
	}
	for _, s := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := db.DeleteEntry(s); err != nil {
			return fmt.Errorf("failed to remove %s: %w", s, err)
		}
		c.log.Info(ctx, "entry removed", "service", s)
	}
	return db.UpdateModified()
}

// ChangePassword re-encrypts every entry under a key derived from
// newPassword and a fresh salt. The vault is rewritten in one transaction.
// If the vault is unlocked, the session moves to the new key.
func (c *Cryptify) ChangePassword(ctx context.Context, currentPassword, newPassword []byte) error {
	if len(newPassword) == 0 {
		return ErrPasswordRequired
	}
	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	oldKey, err := c.deriveVerified(db, currentPassword)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(oldKey)

	salt, err := c.engine.GenerateSalt()
	if err != nil {
		return err
	}
	newKey, err := c.engine.DeriveKey(newPassword, salt)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(newKey)

	hash, err := c.engine.HashKeyForStorage(newKey)
	if err != nil {
		return err
	}

	entries, err := db.ListEntries()
	if err != nil {
		return err
	}
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		e := &entries[i]
		secret, err := c.engine.Decrypt(e.Password, oldKey, e.Nonce)
		if err != nil {
			return fmt.Errorf("failed to decrypt %s: %w", e.Service, err)
		}
		e.Password, e.Nonce, err = c.engine.Encrypt(secret, newKey)
		crypto.ClearBytes(secret)
		if err != nil {
			return fmt.Errorf("failed to re-encrypt %s: %w", e.Service, err)
		}
	}

	if err := db.Rekey(salt, crypto.DefaultKDFParams(), hash, entries); err != nil {
		return fmt.Errorf("failed to rewrite vault: %w", err)
	}

	if c.IsUnlocked() {
		c.key.destroy()
		c.key = newSessionKey(append([]byte(nil), newKey...))
	}
	c.log.Info(ctx, "master password changed", "entries", len(entries))
	return nil
}

// StatusInfo summarizes a vault without decrypting anything.
type StatusInfo struct {
	Path     string
	VaultID  string
	Created  time.Time
	Modified time.Time
	KDF      crypto.KDFParams
	Entries  int
}

// Status reports vault metadata. It does not need the master password.
func (c *Cryptify) Status(ctx context.Context) (*StatusInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db, err := c.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	info := &StatusInfo{Path: c.path}
	if info.VaultID, err = db.GetVaultID(); err != nil && !errors.Is(err, vault.ErrNotFound) {
		return nil, err
	}
	if info.Created, err = db.GetCreated(); err != nil {
		return nil, err
	}
	if info.Modified, err = db.GetModified(); err != nil {
		return nil, err
	}
	if info.KDF, err = db.GetKDFParams(); err != nil {
		return nil, err
	}
	entries, err := db.ListEntries()
	if err != nil {
		return nil, err
	}
	info.Entries = len(entries)
	return info, nil
}

// Compact compacts the database to reclaim space left by removed entries.
func (c *Cryptify) Compact() error {
	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Compact()
}

// GetVaultID retrieves the vault ID from storage
func (c *Cryptify) GetVaultID() (string, error) {
	db, err := c.open()
	if err != nil {
		return "", err
	}
	defer db.Close()
	return db.GetVaultID()
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (c *Cryptify) GetOrCreateVaultID() (string, error) {
	db, err := c.open()
	if err != nil {
		return "", err
	}
	defer db.Close()
	return db.GetOrCreateVaultID()
}
