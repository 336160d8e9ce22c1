package application

import (
	"context"
	"fmt"

	"archie-core-facebook-layer/internal/domain"
	"archie-core-facebook-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ReconcileSummary is returned by the import and refresh flows
type ReconcileSummary struct {
	Message  string                  `json:"message"`
	Accounts []*domain.AccountRecord `json:"accounts"`
}

// FacebookAccountService orchestrates token validation, Graph API listing
// and account reconciliation. Records are processed one at a time in input
// order; a failure stops the batch and earlier writes are kept.
type FacebookAccountService struct {
	client     ports.FacebookClient
	reconciler *AccountReconciler
	logger     zerolog.Logger
}

// NewFacebookAccountService creates a new Facebook account service
func NewFacebookAccountService(
	client ports.FacebookClient,
	reconciler *AccountReconciler,
	logger zerolog.Logger,
) *FacebookAccountService {
	return &FacebookAccountService{
		client:     client,
		reconciler: reconciler,
		logger:     logger,
	}
}

// ImportAccounts stores client supplied accounts after checking the token
func (s *FacebookAccountService) ImportAccounts(ctx context.Context, accessToken string, accounts []domain.AccountRecord) (*ReconcileSummary, error) {
	if !s.client.ValidateToken(ctx, accessToken) {
		return nil, domain.ErrInvalidToken
	}

	imported, err := s.reconcileAll(ctx, accounts)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("imported", len(imported)).
			Int("requested", len(accounts)).
			Msg("Account import aborted")
		return nil, err
	}

	s.logger.Info().Int("accounts", len(imported)).Msg("Imported Facebook accounts")

	return &ReconcileSummary{
		Message:  fmt.Sprintf("%d accounts imported successfully", len(imported)),
		Accounts: imported,
	}, nil
}

// RefreshAccounts pulls the token owner's ad accounts from the Graph API and stores them
func (s *FacebookAccountService) RefreshAccounts(ctx context.Context, accessToken string) (*ReconcileSummary, error) {
	remote, err := s.client.ListAdAccounts(ctx, accessToken)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list Facebook ad accounts")
		return nil, fmt.Errorf("failed to fetch facebook accounts: %w", err)
	}

	records := make([]domain.AccountRecord, 0, len(remote))
	for i := range remote {
		records = append(records, *remote[i].ToAccountRecord(accessToken))
	}

	updated, err := s.reconcileAll(ctx, records)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("updated", len(updated)).
			Int("remote", len(remote)).
			Msg("Account refresh aborted")
		return nil, err
	}

	s.logger.Info().Int("accounts", len(updated)).Msg("Refreshed Facebook accounts")

	return &ReconcileSummary{
		Message:  fmt.Sprintf("%d accounts updated", len(updated)),
		Accounts: updated,
	}, nil
}

func (s *FacebookAccountService) reconcileAll(ctx context.Context, records []domain.AccountRecord) ([]*domain.AccountRecord, error) {
	results := make([]*domain.AccountRecord, 0, len(records))
	for i := range records {
		account, err := s.reconciler.Reconcile(ctx, &records[i])
		if err != nil {
			return results, err
		}
		results = append(results, account)
	}
	return results, nil
}
