package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/financial-planner-server/internal/models"
)

// InMemoryCredentialRepository keeps credentials for the lifetime of the process.
type InMemoryCredentialRepository struct {
	mu          sync.RWMutex
	credentials map[string]models.Credential
}

func NewInMemoryCredentialRepository() *InMemoryCredentialRepository {
	return &InMemoryCredentialRepository{
		credentials: map[string]models.Credential{},
	}
}

func (r *InMemoryCredentialRepository) Get(_ context.Context, userID string) (models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.credentials[userID]
	if !ok {
		return models.Credential{}, ErrCredentialNotFound
	}
	return cred, nil
}

func (r *InMemoryCredentialRepository) Set(_ context.Context, cred models.Credential) error {
	if cred.UpdatedAt.IsZero() {
		cred.UpdatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.credentials[cred.UserID] = cred
	r.mu.Unlock()
	return nil
}

func (r *InMemoryCredentialRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.credentials[userID]; !ok {
		return ErrCredentialNotFound
	}
	delete(r.credentials, userID)
	return nil
}

func (r *InMemoryCredentialRepository) Clear() {
	r.mu.Lock()
	r.credentials = map[string]models.Credential{}
	r.mu.Unlock()
}
