package config

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/seelkers/favsearch/internal/errors"
	"github.com/seelkers/favsearch/internal/remote"
)

// KeyStore persists per-account index keys in a YAML file. Writes are
// guarded by a file lock so concurrent CLI invocations cannot clobber each
// other's keys.
type KeyStore struct {
	path string
}

// NewKeyStore creates a key store persisting to path.
func NewKeyStore(path string) *KeyStore {
	return &KeyStore{path: path}
}

// Get returns the stored key for an account, or "" when none exists or the
// stored value is not a valid key.
func (s *KeyStore) Get(account string) (string, error) {
	keys, err := s.read()
	if err != nil {
		return "", err
	}
	key := keys[account]
	if !remote.ValidKey(key) {
		return "", nil
	}
	return key, nil
}

// Ensure returns the account's key, generating and persisting a fresh one
// when no valid key exists yet.
func (s *KeyStore) Ensure(account string) (string, error) {
	unlock, err := s.lock()
	if err != nil {
		return "", err
	}
	defer unlock()

	keys, err := s.read()
	if err != nil {
		return "", err
	}
	if key := keys[account]; remote.ValidKey(key) {
		return key, nil
	}

	key, err := remote.GenerateKey()
	if err != nil {
		return "", errors.InternalError("generate index key", err)
	}
	keys[account] = key
	if err := s.write(keys); err != nil {
		return "", err
	}
	return key, nil
}

// Rotate replaces the account's key with a fresh one.
func (s *KeyStore) Rotate(account string) (string, error) {
	unlock, err := s.lock()
	if err != nil {
		return "", err
	}
	defer unlock()

	keys, err := s.read()
	if err != nil {
		return "", err
	}
	key, err := remote.GenerateKey()
	if err != nil {
		return "", errors.InternalError("generate index key", err)
	}
	keys[account] = key
	if err := s.write(keys); err != nil {
		return "", err
	}
	return key, nil
}

// lock takes the cross-process file lock, returning the release func.
func (s *KeyStore) lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, errors.ConfigError("create key directory", err)
	}
	fl := flock.New(s.path + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, errors.ConfigError("lock key file", err)
	}
	return func() { _ = fl.Unlock() }, nil
}

func (s *KeyStore) read() (map[string]string, error) {
	keys := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return keys, nil
		}
		return nil, errors.ConfigError("read key file", err)
	}
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, errors.ConfigError("parse key file", err)
	}
	return keys, nil
}

func (s *KeyStore) write(keys map[string]string) error {
	data, err := yaml.Marshal(keys)
	if err != nil {
		return errors.InternalError("encode key file", err)
	}
	// Keys gate remote traffic for the account; keep them private.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.ConfigError("write key file", err)
	}
	return nil
}
