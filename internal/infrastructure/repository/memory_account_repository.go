package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"archie-core-facebook-layer/internal/domain"

	"github.com/google/uuid"
)

// MemoryAccountRepository keeps accounts in process memory
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	byID     map[string]*domain.AccountRecord
	external map[string]string
	now      func() time.Time
}

// NewMemoryAccountRepository creates an empty in-memory repository
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:     make(map[string]*domain.AccountRecord),
		external: make(map[string]string),
		now:      time.Now,
	}
}

func (r *MemoryAccountRepository) GetByExternalID(_ context.Context, externalID string) (*domain.AccountRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.external[externalID]
	if !ok {
		return nil, nil
	}
	return r.byID[id].Clone(), nil
}

func (r *MemoryAccountRepository) Create(_ context.Context, account *domain.AccountRecord) (*domain.AccountRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.external[account.ExternalID]; exists {
		return nil, fmt.Errorf("failed to create account %s: %w", account.ExternalID, ErrDuplicateAccount)
	}

	now := r.now().UTC()
	created := account.Clone()
	created.ID = uuid.NewString()
	created.ConnectedAt = now
	created.UpdatedAt = now

	r.byID[created.ID] = created
	r.external[created.ExternalID] = created.ID
	return created.Clone(), nil
}

func (r *MemoryAccountRepository) Update(_ context.Context, account *domain.AccountRecord) (*domain.AccountRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[account.ID]
	if !ok {
		return nil, fmt.Errorf("failed to update account %s: %w", account.ID, ErrAccountNotFound)
	}
	if owner, taken := r.external[account.ExternalID]; taken && owner != account.ID {
		return nil, fmt.Errorf("failed to update account %s: %w", account.ID, ErrDuplicateAccount)
	}

	delete(r.external, stored.ExternalID)
	stored.Overwrite(account)
	stored.UpdatedAt = r.now().UTC()
	r.external[stored.ExternalID] = stored.ID
	return stored.Clone(), nil
}

// List returns every stored account ordered by external id
func (r *MemoryAccountRepository) List() []*domain.AccountRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*domain.AccountRecord, 0, len(r.byID))
	for _, account := range r.byID {
		accounts = append(accounts, account.Clone())
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ExternalID < accounts[j].ExternalID
	})
	return accounts
}
