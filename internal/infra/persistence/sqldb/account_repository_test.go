package sqldb

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"accountd/internal/domain/entity"
	domainerrors "accountd/internal/domain/errors"
	"accountd/internal/domain/repository"
	"accountd/internal/infra/persistence/model"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database migrated to the current schema.
// A file in t.TempDir keeps the schema visible across pooled connections,
// which an unshared in-memory database would not.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "accounts_test.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.AccountModel{}))

	t.Cleanup(func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestAccountRepository_CreateAndFindByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := &entity.Account{
		Email:        "test@example.com",
		Fullname:     "Test User",
		PasswordHash: "hashed_password",
	}

	require.NoError(t, repo.Create(ctx, account))
	assert.NotEmpty(t, account.ID, "insert should assign an ID")
	assert.False(t, account.CreatedAt.IsZero())

	found, err := repo.FindByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)
	assert.Equal(t, "Test User", found.Fullname)
	assert.Equal(t, "hashed_password", found.PasswordHash)
}

func TestAccountRepository_FindByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)

	found, err := repo.FindByEmail(context.Background(), "nobody@example.com")

	assert.Nil(t, found)
	assert.True(t, errors.Is(err, repository.ErrAccountNotFound))
}

func TestAccountRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	first := &entity.Account{Email: "taken@example.com", PasswordHash: "hash_one"}
	require.NoError(t, repo.Create(ctx, first))

	second := &entity.Account{Email: "taken@example.com", Fullname: "Other", PasswordHash: "hash_two"}
	err := repo.Create(ctx, second)

	assert.True(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))

	var count int64
	require.NoError(t, db.Model(&model.AccountModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAccountRepository_Create_ConcurrentSameEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	const writers = 4
	results := make([]error, writers)

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = repo.Create(ctx, &entity.Account{
				Email:        "racer@example.com",
				PasswordHash: "hash",
			})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))
	}
	assert.Equal(t, 1, succeeded, "exactly one writer should win")

	var count int64
	require.NoError(t, db.Model(&model.AccountModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := tm.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		createErr := repoFactory.AccountRepo().Create(ctx, &entity.Account{
			Email:        "rollback@example.com",
			PasswordHash: "hash",
		})
		require.NoError(t, createErr)

		return sentinel
	})
	assert.True(t, errors.Is(err, sentinel))

	var count int64
	require.NoError(t, db.Model(&model.AccountModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "rollback should discard the insert")
}

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	err := tm.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.AccountRepo().Create(ctx, &entity.Account{
			Email:        "committed@example.com",
			PasswordHash: "hash",
		})
	})
	require.NoError(t, err)

	repo := NewAccountRepository(db)
	found, err := repo.FindByEmail(ctx, "committed@example.com")
	require.NoError(t, err)
	assert.Equal(t, "committed@example.com", found.Email)
}
