package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_KeepsDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("load ticket: %w", NewForbidden("access denied"))

	de := ToDomainError(wrapped)

	require.NotNil(t, de)
	assert.Equal(t, CodeForbidden, de.Code)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	assert.Equal(t, "access denied", de.Message)
}

func TestToDomainError_MapsFiberErrors(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusNotFound, "Cannot GET /nope"))
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	de = ToDomainError(fiber.NewError(http.StatusServiceUnavailable, "boom"))
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, "internal server error", de.Message)
}

func TestToDomainError_HidesUnknownCauses(t *testing.T) {
	de := ToDomainError(errors.New("pq: connection reset"))

	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "internal server error", de.Message)
	assert.EqualError(t, de.Unwrap(), "pq: connection reset")
}

func TestToDomainError_NoRows(t *testing.T) {
	de := ToDomainError(sql.ErrNoRows)
	assert.Equal(t, CodeNotFound, de.Code)
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(NewConflict("username already exists", nil), CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))
	assert.Nil(t, MapError(nil))
}
