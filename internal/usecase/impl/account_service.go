// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"regexp"

	"accountd/config"
	deliverycontext "accountd/internal/delivery/context"
	"accountd/internal/domain/entity"
	domainerrors "accountd/internal/domain/errors"
	"accountd/internal/domain/repository"
	"accountd/internal/domain/service"
	"accountd/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// emailPattern is the coarse syntactic check carried over unchanged: one or
// more non-@ characters, @, one or more non-@ characters, a dot, and at least
// one more character. Prefix-anchored only. It accepts many invalid addresses
// and rejects some valid ones; it is documented as-is, not hardened.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

// bcrypt rejects inputs longer than 72 bytes, so longer passwords are invalid
// input rather than a hashing fault. The limit is bytes, not runes.
const passwordMaxBytes = 72

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager       repository.TransactionManager
	accountRepo     repository.AccountRepository
	hasher          service.PasswordHasher
	requireFullname bool
	logger          *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	requireFullname := false
	if params.Config != nil && params.Config.Signup != nil {
		requireFullname = params.Config.Signup.RequireFullname
	}

	return &accountService{
		txManager:       params.TxManager,
		accountRepo:     params.AccountRepo,
		hasher:          params.Hasher,
		requireFullname: requireFullname,
		logger:          params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account. Validation is fail-fast in a fixed order:
// credentials present, full name present (when configured), email shape,
// then uniqueness. The lookup and insert run inside one transaction so a
// failed insert leaves no partial row; a unique-constraint violation on
// insert means a concurrent registration won the race and is reported the
// same way as a found duplicate.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if input.Email == "" || input.Password == "" {
		return nil, errors.WithStack(domainerrors.ErrMissingCredentials)
	}
	if srv.requireFullname && input.Fullname == "" {
		return nil, errors.WithStack(domainerrors.ErrMissingFullname)
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, errors.WithStack(domainerrors.ErrInvalidEmailFormat)
	}
	if len(input.Password) > passwordMaxBytes {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("password exceeds the 72-byte bcrypt input limit")
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	var registered *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		_, err := accountRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			return domainerrors.ErrAccountAlreadyExists.WrapMessage("email already registered")
		}
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(err, "failed to look up account by email")
		}

		hashedPassword, hashErr := srv.hasher.Hash(input.Password)
		if hashErr != nil {
			srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", hashErr))

			return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
		}

		newAccount := &entity.Account{
			Email:        input.Email,
			Fullname:     input.Fullname,
			PasswordHash: hashedPassword,
		}

		if createErr := accountRepo.Create(ctx, newAccount); createErr != nil {
			// A unique violation here means a second writer won the race
			// between the lookup and the insert.
			return errors.Wrap(createErr, "failed to create account during registration")
		}

		registered = newAccount

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", registered.ID))

	return &usecase.RegisterOutput{Account: registered}, nil
}

// Login verifies the supplied credentials against the stored hash. An unknown
// email and a wrong password produce the same ErrInvalidCredentials; callers
// must not be able to tell which case occurred.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if input.Email == "" || input.Password == "" {
		return nil, errors.WithStack(domainerrors.ErrMissingCredentials)
	}

	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to look up account by email")
	}

	// Check password outside any transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{Account: account}, nil
}
