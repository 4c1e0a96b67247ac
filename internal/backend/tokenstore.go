package backend

import (
	"errors"
	"sync"

	"github.com/zalando/go-keyring"
)

// TokenStore persists the access token between runs.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

const keyringUser = "access-token"

// KeyringTokenStore keeps the token in the OS keyring.
type KeyringTokenStore struct {
	service string
}

func NewKeyringTokenStore(service string) *KeyringTokenStore {
	return &KeyringTokenStore{service: service}
}

func (s *KeyringTokenStore) Save(token string) error {
	return keyring.Set(s.service, keyringUser, token)
}

// Load returns "" without error when no token has been saved yet.
func (s *KeyringTokenStore) Load() (string, error) {
	token, err := keyring.Get(s.service, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *KeyringTokenStore) Clear() error {
	err := keyring.Delete(s.service, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// MemoryTokenStore is an in-process TokenStore for tests and environments
// without a keyring.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore { return &MemoryTokenStore{} }

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
