package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"

	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
)

// KeyringService is the service name used for OS keyring entries
const KeyringService = "groqchat"

// CredentialStore holds the single API key used for remote completions.
// Get returns errors.ErrNoCredential when nothing is stored.
// Set with a blank value behaves like Delete.
type CredentialStore interface {
	Get() (string, error)
	Set(value string) error
	Delete() error
}

// NewCredentialStore returns the store selected by cfg.CredentialBackend
func NewCredentialStore(cfg Config) (CredentialStore, error) {
	switch cfg.CredentialBackend {
	case "", BackendFile:
		path, err := GetCredentialsPath()
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	case BackendKeyring:
		return NewKeyringStore(KeyringService), nil
	default:
		return nil, fmt.Errorf("unknown credential backend: %s", cfg.CredentialBackend)
	}
}

// CredentialListItem represents an entry in list export format
type CredentialListItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FileStore keeps the credential in a JSON dict on disk
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a FileStore backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the stored credential
func (s *FileStore) Get() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.read()
	if err != nil {
		return "", err
	}

	value := strings.TrimSpace(entries[models.CredentialKey])
	if value == "" {
		return "", apierrors.ErrNoCredential
	}
	return value, nil
}

// Set stores the credential, or deletes it when value is blank
func (s *FileStore) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.Delete()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil && !errors.Is(err, apierrors.ErrNoCredential) {
		return err
	}
	if entries == nil {
		entries = map[string]string{}
	}
	entries[models.CredentialKey] = value
	return s.write(entries)
}

// Delete removes the credential. Deleting an absent credential is not an error.
func (s *FileStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if errors.Is(err, apierrors.ErrNoCredential) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, ok := entries[models.CredentialKey]; !ok {
		return nil
	}
	delete(entries, models.CredentialKey)

	if len(entries) == 0 {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove credentials file: %w", err)
		}
		return nil
	}
	return s.write(entries)
}

// read returns ErrNoCredential when the file is missing
func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierrors.ErrNoCredential
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]string{}, nil
	}

	entries, err := parseCredentials(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return entries, nil
}

func (s *FileStore) write(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	// Owner read/write only
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// parseCredentials parses credentials from JSON data.
// Supports both dict format {name: value} and list format [{name, value}].
func parseCredentials(data []byte) (map[string]string, error) {
	var dictFormat map[string]string
	if err := json.Unmarshal(data, &dictFormat); err == nil {
		return dictFormat, nil
	}

	var listFormat []CredentialListItem
	if err := json.Unmarshal(data, &listFormat); err == nil {
		entries := make(map[string]string, len(listFormat))
		for _, item := range listFormat {
			entries[item.Name] = item.Value
		}
		return entries, nil
	}

	return nil, fmt.Errorf("invalid credentials format: expected dict {name: value} or list [{name, value}]")
}

// ImportCredential reads the API key from a JSON export (for example a
// dump of the browser widget's localStorage) and stores it.
func ImportCredential(sourcePath string, store CredentialStore) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("source file not found: %s", sourcePath)
		}
		return fmt.Errorf("could not read file: %w", err)
	}

	entries, err := parseCredentials(data)
	if err != nil {
		return err
	}

	value := strings.TrimSpace(entries[models.CredentialKey])
	if value == "" {
		return fmt.Errorf("missing required entry: %s", models.CredentialKey)
	}

	return store.Set(value)
}

// KeyringStore keeps the credential in the OS keyring
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a KeyringStore under the given service name
func NewKeyringStore(service string) *KeyringStore {
	return &KeyringStore{service: service}
}

// Get returns the stored credential
func (s *KeyringStore) Get() (string, error) {
	value, err := keyring.Get(s.service, models.CredentialKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", apierrors.ErrNoCredential
		}
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", apierrors.ErrNoCredential
	}
	return value, nil
}

// Set stores the credential, or deletes it when value is blank
func (s *KeyringStore) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.Delete()
	}
	if err := keyring.Set(s.service, models.CredentialKey, value); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

// Delete removes the credential
func (s *KeyringStore) Delete() error {
	err := keyring.Delete(s.service, models.CredentialKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keyring entry: %w", err)
	}
	return nil
}

// MemoryStore is an in-process CredentialStore
type MemoryStore struct {
	mu    sync.RWMutex
	value string
	// GetErr, when set, is returned by Get
	GetErr error
}

// NewMemoryStore creates a MemoryStore holding value
func NewMemoryStore(value string) *MemoryStore {
	return &MemoryStore{value: strings.TrimSpace(value)}
}

// Get returns the stored credential
func (s *MemoryStore) Get() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.GetErr != nil {
		return "", s.GetErr
	}
	if s.value == "" {
		return "", apierrors.ErrNoCredential
	}
	return s.value, nil
}

// Set stores the credential
func (s *MemoryStore) Set(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = strings.TrimSpace(value)
	return nil
}

// Delete removes the credential
func (s *MemoryStore) Delete() error {
	return s.Set("")
}

// MaskCredential hides all but the first and last four characters
func MaskCredential(value string) string {
	r := []rune(value)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:4]) + strings.Repeat("*", len(r)-8) + string(r[len(r)-4:])
}
