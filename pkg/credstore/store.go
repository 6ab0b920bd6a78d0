// Package credstore persists the gateway's bearer token and the email it
// was issued for. The pair is the only mutable state shared between the
// internal and external message channels, so every backend guarantees that
// token and email are written and cleared atomically: callers can never
// observe a token without its matching email.
package credstore

import (
	"context"
	"sync"

	"sealgate/pkg/models"
)

// Store is the credential store contract. Get on an empty store returns a
// zero Credential and no error.
type Store interface {
	Get(ctx context.Context) (models.Credential, error)
	Set(ctx context.Context, token, email string) error
	Clear(ctx context.Context) error
}

// MemoryStore is a mutex-guarded in-process store. It is the default for
// tests and for ephemeral gateway runs.
type MemoryStore struct {
	mu   sync.RWMutex
	cred models.Credential
}

// NewMemoryStore creates a new in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored credential pair.
func (s *MemoryStore) Get(ctx context.Context) (models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, nil
}

// Set stores the token/email pair. Both fields are required.
func (s *MemoryStore) Set(ctx context.Context, token, email string) error {
	if token == "" || email == "" {
		return models.ErrIncompleteCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = models.Credential{Token: token, Email: email}
	return nil
}

// Clear removes the stored pair.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = models.Credential{}
	return nil
}
