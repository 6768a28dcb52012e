package vault

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/illarion/cryptify/internal/crypto"
)

// Bucket names
var (
	ConfigBucket  = []byte("config")  // salt, KDF params, master hash, timestamps
	EntriesBucket = []byte("entries") // service -> JSON Entry
)

// Config keys
var (
	ConfigVersion    = []byte("version")
	ConfigCreated    = []byte("created")
	ConfigModified   = []byte("modified")
	ConfigSalt       = []byte("salt")
	ConfigKDF        = []byte("kdf")
	ConfigMasterHash = []byte("master_hash")
	ConfigVaultID    = []byte("vault_id")
)

// FormatVersion is written on Initialize.
const FormatVersion = "1"

var (
	ErrNotFound      = errors.New("not found")
	ErrEntryNotFound = errors.New("entry not found")
	ErrEntryExists   = errors.New("entry already exists")
)

// Storage provides BBolt-based storage for a vault file
type Storage struct {
	db *bolt.DB
}

// Open opens or creates a vault database. It fails after a second if another
// process holds the file lock.
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Initialize creates the bucket structure for a new vault
func (s *Storage) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, EntriesBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte(FormatVersion)); err != nil {
			return err
		}

		created, _ := time.Now().MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Storage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

func (s *Storage) putConfig(key, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		return config.Put(key, value)
	})
}

// getConfig returns a copy of a config value, or ErrNotFound.
func (s *Storage) getConfig(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		v := config.Get(key)
		if v == nil {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		// Make a copy since the slice is only valid during the transaction
		value = append([]byte(nil), v...)
		return nil
	})
	return value, err
}

// GetSalt retrieves the KDF salt
func (s *Storage) GetSalt() ([]byte, error) {
	return s.getConfig(ConfigSalt)
}

// GetMasterHash retrieves the storage hash of the master key.
func (s *Storage) GetMasterHash() ([]byte, error) {
	return s.getConfig(ConfigMasterHash)
}

func encodeKDF(p crypto.KDFParams) []byte {
	buf := make([]byte, 9)
	binary.BigEndian.PutUint32(buf[0:4], p.Time)
	binary.BigEndian.PutUint32(buf[4:8], p.Memory)
	buf[8] = p.Threads
	return buf
}

// GetKDFParams retrieves the stored Argon2id parameters.
func (s *Storage) GetKDFParams() (crypto.KDFParams, error) {
	data, err := s.getConfig(ConfigKDF)
	if err != nil {
		return crypto.KDFParams{}, err
	}
	if len(data) != 9 {
		return crypto.KDFParams{}, fmt.Errorf("kdf parameters corrupt: %d bytes", len(data))
	}
	return crypto.KDFParams{
		Time:    binary.BigEndian.Uint32(data[0:4]),
		Memory:  binary.BigEndian.Uint32(data[4:8]),
		Threads: data[8],
	}, nil
}

func (s *Storage) getTime(key []byte) (time.Time, error) {
	var t time.Time
	data, err := s.getConfig(key)
	if err != nil {
		return t, err
	}
	return t, t.UnmarshalBinary(data)
}

// UpdateModified updates the last modified timestamp
func (s *Storage) UpdateModified() error {
	modified, _ := time.Now().MarshalBinary()
	return s.putConfig(ConfigModified, modified)
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	return s.getTime(ConfigModified)
}

// GetCreated retrieves the creation timestamp
func (s *Storage) GetCreated() (time.Time, error) {
	return s.getTime(ConfigCreated)
}

// GetVaultID retrieves the vault ID from config bucket
func (s *Storage) GetVaultID() (string, error) {
	data, err := s.getConfig(ConfigVaultID)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (s *Storage) GetOrCreateVaultID() (string, error) {
	vaultID, err := s.GetVaultID()
	if err == nil {
		return vaultID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate vault ID: %w", err)
	}
	vaultID = id.String()

	if err := s.putConfig(ConfigVaultID, []byte(vaultID)); err != nil {
		return "", err
	}
	return vaultID, nil
}

// AddEntry stores a new entry. It fails with ErrEntryExists if the service is taken.
func (s *Storage) AddEntry(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		entries, err := entriesBucket(tx)
		if err != nil {
			return err
		}
		if entries.Get([]byte(e.Service)) != nil {
			return ErrEntryExists
		}
		return entries.Put([]byte(e.Service), data)
	})
}

// PutEntry stores e, replacing an existing entry for the same service.
func (s *Storage) PutEntry(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		entries, err := entriesBucket(tx)
		if err != nil {
			return err
		}
		return entries.Put([]byte(e.Service), data)
	})
}

// GetEntry returns the entry for service, or ErrEntryNotFound.
func (s *Storage) GetEntry(service string) (*Entry, error) {
	var entry *Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		entries, err := entriesBucket(tx)
		if err != nil {
			return err
		}
		data := entries.Get([]byte(service))
		if data == nil {
			return ErrEntryNotFound
		}
		entry = &Entry{}
		return json.Unmarshal(data, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes the entry for service, or returns ErrEntryNotFound.
func (s *Storage) DeleteEntry(service string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		entries, err := entriesBucket(tx)
		if err != nil {
			return err
		}
		if entries.Get([]byte(service)) == nil {
			return ErrEntryNotFound
		}
		return entries.Delete([]byte(service))
	})
}

// ListEntries returns every entry ordered by service name.
func (s *Storage) ListEntries() ([]Entry, error) {
	var list []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		entries, err := entriesBucket(tx)
		if err != nil {
			return err
		}
		return entries.ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("entry %s: %w", k, err)
			}
			list = append(list, e)
			return nil
		})
	})
	return list, err
}

// Rekey replaces the salt, KDF parameters, master hash and every entry in a
// single transaction. Either the whole vault moves to the new key or nothing
// changes.
func (s *Storage) Rekey(salt []byte, params crypto.KDFParams, masterHash []byte, list []Entry) error {
	encoded := make([][]byte, len(list))
	for i, e := range list {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		encoded[i] = data
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		if err := tx.DeleteBucket(EntriesBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		entries, err := tx.CreateBucket(EntriesBucket)
		if err != nil {
			return err
		}
		for i, e := range list {
			if err := entries.Put([]byte(e.Service), encoded[i]); err != nil {
				return err
			}
		}

		modified, _ := time.Now().MarshalBinary()
		for _, kv := range []struct{ k, v []byte }{
			{ConfigSalt, salt},
			{ConfigKDF, encodeKDF(params)},
			{ConfigMasterHash, masterHash},
			{ConfigModified, modified},
		} {
			if err := config.Put(kv.k, kv.v); err != nil {
				return err
			}
		}
		return nil
	})
}

func entriesBucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	b := tx.Bucket(EntriesBucket)
	if b == nil {
		return nil, fmt.Errorf("entries bucket not found")
	}
	return b, nil
}

// Compact creates a compacted copy of the database, removing unused space.
// Deleted entries leave free pages behind until this runs.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	// bolt.Compact copies in batches of at most txMaxSize bytes.
	if err := bolt.Compact(dst, s.db, 1<<20); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	s.db, err = bolt.Open(srcPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	return nil
}
