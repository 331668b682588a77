// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"accountd/internal/delivery/http/response"
	"accountd/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// signupRequest is the schema-typed signup body. Requiredness and email
// format are checked in order by the use case; the tags bound here enforce
// the column length limits, except password, which is capped at bcrypt's
// 72-byte input limit.
type signupRequest struct {
	Email    string `json:"email" validate:"omitempty,max=120"`
	Password string `json:"password" validate:"omitempty,max=72"`
	Fullname string `json:"fullname" validate:"omitempty,max=120"`
}

// loginRequest is the schema-typed login body.
type loginRequest struct {
	Email    string `json:"email" validate:"omitempty,max=120"`
	Password string `json:"password" validate:"omitempty,max=72"`
}

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// Signup handles the registration request.
func (h *AccountHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	_, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Fullname: req.Fullname,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// No sensitive fields are echoed back.
	return response.Success(c, http.StatusCreated, "User registered successfully!")
}

// Login handles the authentication request.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithFullname(c, http.StatusOK, "Login successful!", output.Account.Fullname)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, "Service is healthy")
}
