package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sealgate/pkg/models"
)

// FileStore persists the credential pair as a JSON document. Writes go
// through a temp file plus rename so a crash mid-write never leaves a
// half-written pair on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed credential store at path. The parent
// directory is created if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("credential file path is required")
	}

	expanded := os.ExpandEnv(path)
	if err := os.MkdirAll(filepath.Dir(expanded), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}

	return &FileStore{path: expanded}, nil
}

// Get reads the stored pair. A missing file means no credential.
func (s *FileStore) Get(ctx context.Context) (models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Credential{}, nil
		}
		return models.Credential{}, fmt.Errorf("failed to read credential file: %w", err)
	}

	var cred models.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return models.Credential{}, fmt.Errorf("failed to parse credential file: %w", err)
	}

	// A tampered or truncated file must not surface a half pair
	if cred.Token == "" || cred.Email == "" {
		return models.Credential{}, nil
	}

	return cred, nil
}

// Set writes the token/email pair atomically.
func (s *FileStore) Set(ctx context.Context, token, email string) error {
	if token == "" || email == "" {
		return models.ErrIncompleteCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(models.Credential{Token: token, Email: email})
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credential-*")
	if err != nil {
		return fmt.Errorf("failed to create temp credential file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set credential file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close credential file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace credential file: %w", err)
	}

	return nil
}

// Clear removes the credential file.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}
