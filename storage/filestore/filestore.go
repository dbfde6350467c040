package filestore

import (
	"crypto/rand"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/jrsteele09/lostfound-auth-client/storage"
)

var _ storage.Store = (*Store)(nil)

// ErrDecrypt is returned when the file cannot be opened with the passphrase,
// either because it is wrong or because the file was tampered with.
var ErrDecrypt = errors.New("cannot decrypt store")

const (
	fileMagic = "LFA1"
	saltSize  = 16
	keySize   = chacha20poly1305.KeySize

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// Store keeps all values in one encrypted file. The key is derived from a
// passphrase with argon2id and every write reseals the whole map with
// XChaCha20-Poly1305 under a fresh nonce. The file layout is
// magic | salt | nonce | ciphertext.
type Store struct {
	path   string
	key    []byte
	salt   []byte
	values map[string]string
	lock   sync.RWMutex
}

// Open loads the store at path, creating an empty one if the file does not
// exist yet.
func Open(path, passphrase string) (*Store, error) {
	if passphrase == "" {
		return nil, errors.New("[filestore.Open] passphrase is required")
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		salt := make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, errors.Wrap(err, "[filestore.Open] salt")
		}
		return &Store{
			path:   path,
			salt:   salt,
			key:    deriveKey(passphrase, salt),
			values: make(map[string]string),
		}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[filestore.Open] read")
	}

	s, err := decode(data, passphrase)
	if err != nil {
		return nil, errors.Wrapf(err, "[filestore.Open] %s", path)
	}
	s.path = path
	return s, nil
}

func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keySize)
}

func decode(data []byte, passphrase string) (*Store, error) {
	header := len(fileMagic) + saltSize + chacha20poly1305.NonceSizeX
	if len(data) < header || string(data[:len(fileMagic)]) != fileMagic {
		return nil, ErrDecrypt
	}
	salt := data[len(fileMagic) : len(fileMagic)+saltSize]
	nonce := data[len(fileMagic)+saltSize : header]

	key := deriveKey(passphrase, salt)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "cipher")
	}
	plain, err := aead.Open(nil, nonce, data[header:], []byte(fileMagic))
	if err != nil {
		return nil, ErrDecrypt
	}

	values := make(map[string]string)
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, errors.Wrap(err, "decode values")
	}
	return &Store{
		key:    key,
		salt:   append([]byte(nil), salt...),
		values: values,
	}, nil
}

func (s *Store) Get(key string) (string, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	previous, existed := s.values[key]
	s.values[key] = value
	if err := s.flush(); err != nil {
		if existed {
			s.values[key] = previous
		} else {
			delete(s.values, key)
		}
		return errors.Wrapf(err, "[Store.Set] %s", key)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	previous, existed := s.values[key]
	if !existed {
		return nil
	}
	delete(s.values, key)
	if err := s.flush(); err != nil {
		s.values[key] = previous
		return errors.Wrapf(err, "[Store.Remove] %s", key)
	}
	return nil
}

// flush seals the map and replaces the file atomically. Callers hold the lock.
func (s *Store) flush() error {
	plain, err := json.Marshal(s.values)
	if err != nil {
		return errors.Wrap(err, "encode values")
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return errors.Wrap(err, "cipher")
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrap(err, "nonce")
	}

	out := make([]byte, 0, len(fileMagic)+saltSize+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, fileMagic...)
	out = append(out, s.salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plain, []byte(fileMagic))

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "mkdir")
	}
	tmp, err := os.CreateTemp(dir, ".auth-store-*")
	if err != nil {
		return errors.Wrap(err, "create temp")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "chmod")
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close")
	}
	return errors.Wrap(os.Rename(tmpName, s.path), "rename")
}
