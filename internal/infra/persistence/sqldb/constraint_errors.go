package sqldb

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// isUniqueConstraintViolation reports whether err is a duplicate-key rejection.
// GORM's TranslateError covers both drivers; the message checks are a fallback
// for paths the translator misses.
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "unique constraint") || // sqlite: "UNIQUE constraint failed"
		strings.Contains(errMsg, "duplicate key") // postgres: "duplicate key value violates unique constraint"
}
