package impl

import (
	"io"
	"log/slog"
	"testing"

	"accountd/config"
	mockRepo "accountd/internal/mocks/repository"
	mockService "accountd/internal/mocks/service"
	"accountd/internal/usecase"
)

// accountServiceFixtures bundles the service under test with its mocks.
type accountServiceFixtures struct {
	service     usecase.AccountUsecase
	txManager   *mockRepo.MockTransactionManager
	accountRepo *mockRepo.MockAccountRepository
	hasher      *mockService.MockPasswordHasher
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(requireFullname bool) *config.Config {
	return &config.Config{
		Auth:   &config.AuthConfig{BcryptCost: 6},
		Signup: &config.SignupConfig{RequireFullname: requireFullname},
	}
}

func createTestAccountService(t *testing.T, requireFullname bool) accountServiceFixtures {
	t.Helper()

	txManager := mockRepo.NewMockTransactionManager(t)
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockService.NewMockPasswordHasher(t)

	service := NewAccountService(AccountServiceParams{
		TxManager:   txManager,
		AccountRepo: accountRepo,
		Hasher:      hasher,
		Config:      newTestConfig(requireFullname),
		Logger:      newDiscardLogger(),
	})

	return accountServiceFixtures{
		service:     service,
		txManager:   txManager,
		accountRepo: accountRepo,
		hasher:      hasher,
	}
}
