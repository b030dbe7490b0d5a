// internal/apiclient/credentials.go
package apiclient

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// CredentialKey is the fixed key the admin credential is saved under.
const CredentialKey = "spicepop_admin_auth"

// CredentialStore persists the Authorization header value handed out by login.
type CredentialStore interface {
	Load() (string, error)
	Save(header string) error
	Clear() error
}

type MemoryCredentials struct {
	mu     sync.RWMutex
	header string
}

func (m *MemoryCredentials) Load() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.header, nil
}

func (m *MemoryCredentials) Save(header string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.header = header
	return nil
}

func (m *MemoryCredentials) Clear() error {
	return m.Save("")
}

// FileCredentials keeps credentials in a small JSON object on disk, keyed by
// CredentialKey, so other keys written by other tools survive.
type FileCredentials struct {
	mu   sync.Mutex
	path string
}

func NewFileCredentials(path string) *FileCredentials {
	return &FileCredentials{path: path}
}

func (f *FileCredentials) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (f *FileCredentials) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileCredentials) Load() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", err
	}
	return values[CredentialKey], nil
}

func (f *FileCredentials) Save(header string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[CredentialKey] = header
	return f.write(values)
}

func (f *FileCredentials) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	delete(values, CredentialKey)
	return f.write(values)
}
