package authsdk_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorIsMatchesByStatus(t *testing.T) {
	err := authsdk.NewUnauthorizedError("invalid refresh token")

	require.ErrorIs(t, err, authsdk.ErrUnauthorized)
	require.NotErrorIs(t, err, authsdk.ErrValidation)

	wrapped := fmt.Errorf("refresh: %w", err)
	require.ErrorIs(t, wrapped, authsdk.ErrUnauthorized)

	var apiErr *authsdk.APIError
	require.True(t, errors.As(wrapped, &apiErr))
	require.Equal(t, "invalid refresh token", apiErr.Message)
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	authsdk.NewConflictError("user with email or username already exists").WriteError(rec)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{
		"statusCode": 409,
		"data": null,
		"message": "user with email or username already exists",
		"success": false
	}`, rec.Body.String())
}

func TestNewResponseSuccessFlag(t *testing.T) {
	require.True(t, authsdk.NewResponse(http.StatusCreated, authsdk.Empty{}, "ok").Success)
	require.False(t, authsdk.NewResponse[any](http.StatusBadRequest, nil, "no").Success)
}
