package main

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsFatalServeError(t *testing.T) {
	assert.False(t, isFatalServeError(nil))
	assert.False(t, isFatalServeError(http.ErrServerClosed))
	// The delivery wraps the serve error before returning it.
	assert.False(t, isFatalServeError(errors.Wrap(http.ErrServerClosed, "failed to serve http")))
	assert.True(t, isFatalServeError(errors.New("bind: address already in use")))
}
