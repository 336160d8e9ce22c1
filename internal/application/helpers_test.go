package application

import (
	"context"
	"errors"
	"sync"

	"archie-core-facebook-layer/internal/domain"
	"archie-core-facebook-layer/internal/infrastructure/lock"
	"archie-core-facebook-layer/internal/infrastructure/metrics"
	"archie-core-facebook-layer/internal/infrastructure/repository"
	"archie-core-facebook-layer/internal/ports"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var errStorageDown = errors.New("storage unavailable")

// ignoreStorageFields compares records on their reconciled values only
var ignoreStorageFields = cmpopts.IgnoreFields(domain.AccountRecord{}, "ID", "ConnectedAt", "UpdatedAt")

type fakeFacebookClient struct {
	mu          sync.Mutex
	validTokens map[string]bool
	accounts    []domain.AdAccount
	listErr     error
	listTokens  []string
	validations int

	exchangeToken string
	exchangeErr   error
	exchanged     []string
	authErr       error
}

func (f *fakeFacebookClient) ValidateToken(_ context.Context, accessToken string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validations++
	return f.validTokens[accessToken]
}

func (f *fakeFacebookClient) ListAdAccounts(_ context.Context, accessToken string) ([]domain.AdAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listTokens = append(f.listTokens, accessToken)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.accounts, nil
}

func (f *fakeFacebookClient) AuthCodeURL(state string, _ []string) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	return "https://www.facebook.com/dialog/oauth?state=" + state, nil
}

func (f *fakeFacebookClient) ExchangeCode(_ context.Context, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanged = append(f.exchanged, code)
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return f.exchangeToken, nil
}

// failingRepository fails every write after the first failAfter successful writes
type failingRepository struct {
	ports.AccountRepository
	mu        sync.Mutex
	writes    int
	failAfter int
}

func (r *failingRepository) allow() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writes >= r.failAfter {
		return errStorageDown
	}
	r.writes++
	return nil
}

func (r *failingRepository) Create(ctx context.Context, account *domain.AccountRecord) (*domain.AccountRecord, error) {
	if err := r.allow(); err != nil {
		return nil, err
	}
	return r.AccountRepository.Create(ctx, account)
}

func (r *failingRepository) Update(ctx context.Context, account *domain.AccountRecord) (*domain.AccountRecord, error) {
	if err := r.allow(); err != nil {
		return nil, err
	}
	return r.AccountRepository.Update(ctx, account)
}

func newTestReconciler(repo ports.AccountRepository) *AccountReconciler {
	return NewAccountReconciler(repo, lock.NewLocalKeyLocker(0), metrics.New(prometheus.NewRegistry()), zerolog.Nop())
}

func newTestService(client *fakeFacebookClient, repo ports.AccountRepository) *FacebookAccountService {
	return NewFacebookAccountService(client, newTestReconciler(repo), zerolog.Nop())
}

func newMemoryRepository() *repository.MemoryAccountRepository {
	return repository.NewMemoryAccountRepository()
}

func facebookRecord(externalID, name string, active bool, currency string) domain.AccountRecord {
	return domain.AccountRecord{
		Platform:    domain.PlatformFacebookAds,
		Kind:        domain.KindFacebook,
		Token:       "valid-token",
		ExternalID:  externalID,
		DisplayName: name,
		Active:      active,
		Metadata: domain.Metadata{
			"currency":      domain.StringValue(currency),
			"business_name": domain.NullValue(),
			"business_id":   domain.NullValue(),
		},
	}
}
