package application

import (
	"context"
	"errors"
	"fmt"

	"archie-core-facebook-layer/internal/domain"
	"archie-core-facebook-layer/internal/infrastructure/metrics"
	"archie-core-facebook-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ErrMissingExternalID is returned for records without a remote identifier
var ErrMissingExternalID = errors.New("account external id is required")

// AccountReconciler upserts accounts keyed on their external id
type AccountReconciler struct {
	repo    ports.AccountRepository
	locker  ports.KeyLocker
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewAccountReconciler creates a new account reconciler
func NewAccountReconciler(
	repo ports.AccountRepository,
	locker ports.KeyLocker,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *AccountReconciler {
	return &AccountReconciler{
		repo:    repo,
		locker:  locker,
		metrics: m,
		logger:  logger,
	}
}

// Reconcile creates the account on first sight of its external id and
// overwrites every mutable field on later sights. The create-or-update
// decision is taken while holding the lock for the external id.
func (r *AccountReconciler) Reconcile(ctx context.Context, record *domain.AccountRecord) (*domain.AccountRecord, error) {
	if record.ExternalID == "" {
		return nil, ErrMissingExternalID
	}

	unlock, err := r.locker.Lock(ctx, record.ExternalID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := r.repo.GetByExternalID(ctx, record.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account %s: %w", record.ExternalID, err)
	}

	if existing != nil {
		existing.Overwrite(record)
		updated, err := r.repo.Update(ctx, existing)
		if err != nil {
			return nil, fmt.Errorf("failed to update account %s: %w", record.ExternalID, err)
		}

		r.metrics.AccountReconciled("updated")
		r.logger.Debug().
			Str("externalID", record.ExternalID).
			Str("accountID", updated.ID).
			Msg("Updated existing account")
		return updated, nil
	}

	candidate := record.Clone()
	candidate.ID = ""
	created, err := r.repo.Create(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", record.ExternalID, err)
	}

	r.metrics.AccountReconciled("created")
	r.logger.Debug().
		Str("externalID", record.ExternalID).
		Str("accountID", created.ID).
		Msg("Created new account")
	return created, nil
}
