package authsdk

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/tubetab/pkg/httpx"
)

// ============================================================================
// APIError - the one error shape every endpoint returns
// ============================================================================

// APIError is a caller-visible failure: an HTTP status plus a message that is
// safe to show to the client. It is used both by the server (to write the
// error envelope) and by the SDK client (to represent non-2xx responses).
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Is matches any APIError with the same status, so callers can write
// errors.Is(err, authsdk.ErrUnauthorized) regardless of the message.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// WriteError writes this APIError as the standard failure envelope.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, Response[any]{
		StatusCode: e.StatusCode,
		Data:       nil,
		Message:    e.Message,
		Success:    false,
	})
}

// ============================================================================
// Kind sentinels, compare with errors.Is
// ============================================================================

var (
	ErrValidation   = &APIError{StatusCode: http.StatusBadRequest, Message: "bad request"}
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized, Message: "unauthorized"}
	ErrNotFound     = &APIError{StatusCode: http.StatusNotFound, Message: "not found"}
	ErrConflict     = &APIError{StatusCode: http.StatusConflict, Message: "conflict"}
	ErrInternal     = &APIError{StatusCode: http.StatusInternalServerError, Message: "internal server error"}
)

func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

func NewValidationError(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message string) *APIError {
	return NewAPIError(http.StatusUnauthorized, message)
}

func NewNotFoundError(message string) *APIError {
	return NewAPIError(http.StatusNotFound, message)
}

func NewConflictError(message string) *APIError {
	return NewAPIError(http.StatusConflict, message)
}

func NewInternalError(message string) *APIError {
	return NewAPIError(http.StatusInternalServerError, message)
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx envelope into an *APIError. Bodies that
// aren't an envelope (a proxy error page, say) still produce an APIError
// carrying the HTTP status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var env Response[any]
	if err := unmarshal(body, &env); err == nil && env.Message != "" {
		return NewAPIError(resp.StatusCode, env.Message)
	}

	return NewAPIError(resp.StatusCode, http.StatusText(resp.StatusCode))
}
