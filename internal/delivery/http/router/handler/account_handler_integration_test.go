package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"accountd/config"
	"accountd/internal/delivery/http/middleware"
	"accountd/internal/delivery/http/response"
	"accountd/internal/delivery/http/router/handler"
	"accountd/internal/delivery/http/validator"
	"accountd/internal/infra/auth"
	"accountd/internal/infra/persistence/model"
	"accountd/internal/infra/persistence/sqldb"
	"accountd/internal/usecase/impl"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer wires the real stack over a throwaway sqlite database: echo
// with the production error handler and validator, the gorm repository and
// transaction manager, a low-cost bcrypt hasher, and the account use case.
func newTestServer(t *testing.T, requireFullname bool) *echo.Echo {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "accounts_test.db")
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

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := impl.NewAccountService(impl.AccountServiceParams{
		TxManager:   sqldb.NewTransactionManager(db),
		AccountRepo: sqldb.NewAccountRepository(db),
		Hasher:      auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		Config: &config.Config{
			Signup: &config.SignupConfig{RequireFullname: requireFullname},
		},
		Logger: discard,
	})

	accountHandler := handler.NewAccountHandler(service, discard)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(discard).HandleHTTPError
	e.Validator = validator.New()
	e.POST("/signup", accountHandler.Signup)
	e.POST("/login", accountHandler.Login)
	e.GET("/health", handler.HealthCheck)

	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) (int, response.Body) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var parsed response.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed), "body: %s", rec.Body.String())

	return rec.Code, parsed
}

func TestAccounts_SignupLoginFlow(t *testing.T) {
	e := newTestServer(t, true)

	// Fresh registration.
	code, body := doJSON(t, e, http.MethodPost, "/signup",
		`{"email":"alice@example.com","password":"s3cret","fullname":"Alice Example"}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "User registered successfully!", body.Message)
	assert.Empty(t, body.Fullname)
	assert.Nil(t, body.Error)

	// Same email again.
	code, body = doJSON(t, e, http.MethodPost, "/signup",
		`{"email":"alice@example.com","password":"different","fullname":"Alice Again"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User with this email already exists!", body.Message)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ACCOUNT_ALREADY_EXISTS", body.Error.Code)

	// Correct credentials.
	code, body = doJSON(t, e, http.MethodPost, "/login",
		`{"email":"alice@example.com","password":"s3cret"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful!", body.Message)
	assert.Equal(t, "Alice Example", body.Fullname)
	assert.Nil(t, body.Error)

	// Wrong password.
	code, wrongPw := doJSON(t, e, http.MethodPost, "/login",
		`{"email":"alice@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password!", wrongPw.Message)
	require.NotNil(t, wrongPw.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", wrongPw.Error.Code)

	// Unknown email returns an identical failure.
	code, unknown := doJSON(t, e, http.MethodPost, "/login",
		`{"email":"bob@example.com","password":"s3cret"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, wrongPw, unknown)
}

func TestAccounts_SignupValidation(t *testing.T) {
	e := newTestServer(t, true)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
		wantErr  string
	}{
		{
			name:     "invalid email shape",
			body:     `{"email":"not-an-email","password":"pw123","fullname":"X"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid email format!",
			wantErr:  "INVALID_EMAIL_FORMAT",
		},
		{
			name:     "missing password",
			body:     `{"email":"carol@example.com","fullname":"Carol"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Email and password are required!",
			wantErr:  "MISSING_FIELD",
		},
		{
			name:     "missing email",
			body:     `{"password":"pw123","fullname":"Carol"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Email and password are required!",
			wantErr:  "MISSING_FIELD",
		},
		{
			name:     "missing fullname",
			body:     `{"email":"carol@example.com","password":"pw123"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Full name is required",
			wantErr:  "MISSING_FIELD",
		},
		{
			name:     "password over bcrypt limit",
			body:     `{"email":"carol@example.com","password":"` + strings.Repeat("a", 73) + `","fullname":"Carol"}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_FAILED",
		},
		{
			name:     "email over column limit",
			body:     `{"email":"` + strings.Repeat("a", 120) + `@example.com","password":"pw123","fullname":"X"}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := doJSON(t, e, http.MethodPost, "/signup", tt.body)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Message)
			}
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantErr, body.Error.Code)
		})
	}

	// Nothing was persisted by any of the rejected requests.
	code, body := doJSON(t, e, http.MethodPost, "/login",
		`{"email":"carol@example.com","password":"pw123"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
}

func TestAccounts_SignupPasswordAtBcryptLimit(t *testing.T) {
	e := newTestServer(t, true)
	password := strings.Repeat("a", 72)

	code, body := doJSON(t, e, http.MethodPost, "/signup",
		`{"email":"erin@example.com","password":"`+password+`","fullname":"Erin Example"}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "User registered successfully!", body.Message)

	code, body = doJSON(t, e, http.MethodPost, "/login",
		`{"email":"erin@example.com","password":"`+password+`"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Erin Example", body.Fullname)
}

func TestAccounts_SignupFullnameOptional(t *testing.T) {
	e := newTestServer(t, false)

	code, body := doJSON(t, e, http.MethodPost, "/signup",
		`{"email":"dave@example.com","password":"pw123"}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "User registered successfully!", body.Message)

	code, body = doJSON(t, e, http.MethodPost, "/login",
		`{"email":"dave@example.com","password":"pw123"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, body.Fullname)
}

func TestAccounts_MalformedJSON(t *testing.T) {
	e := newTestServer(t, true)

	code, body := doJSON(t, e, http.MethodPost, "/signup", `{"email": "broken"`)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_INPUT", body.Error.Code)

	code, body = doJSON(t, e, http.MethodPost, "/login", `not json at all`)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_INPUT", body.Error.Code)
}

func TestAccounts_Health(t *testing.T) {
	e := newTestServer(t, true)

	code, body := doJSON(t, e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Service is healthy", body.Message)
}
