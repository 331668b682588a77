// Package response shapes every JSON body the service returns.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Body is the unified API response structure. Success bodies carry a message
// and, for login, the account's full name; error bodies add machine-readable
// error information.
type Body struct {
	Message  string     `json:"message"`
	Fullname string     `json:"fullname,omitempty"`
	Error    *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g., "INVALID_CREDENTIALS"
	Details string `json:"details,omitempty"` // Detailed error description
}

// Success successful response
func Success(c echo.Context, statusCode int, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Body{Message: message})
}

// SuccessWithFullname successful response carrying the account's full name.
func SuccessWithFullname(c echo.Context, statusCode int, message, fullname string) error {
	return c.JSON(statusCode, Body{Message: message, Fullname: fullname})
}

// Error error response
func Error(c echo.Context, statusCode int, errorCode string, message string, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Body{
		Message: message,
		Error: &ErrorInfo{
			Code:    errorCode,
			Details: details,
		},
	})
}

// BindingError binding error response
func BindingError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, "")
}

// InternalServerError 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, "")
}
