package authsdk

import "time"

// ============================================================================
// Envelope
// ============================================================================

// Response is the envelope every /api/v1 endpoint answers with.
type Response[T any] struct {
	StatusCode int    `json:"statusCode" example:"200"`
	Data       T      `json:"data"`
	Message    string `json:"message" example:"Success"`
	Success    bool   `json:"success" example:"true"`
}

// NewResponse builds a success envelope, Success is derived from the status.
func NewResponse[T any](statusCode int, data T, message string) Response[T] {
	return Response[T]{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

// ============================================================================
// User Types
// ============================================================================

// User is the sanitized public view of an account. It never carries the
// password hash or the refresh token.
type User struct {
	ID         string    `json:"_id" example:"01HZX3Q9W8T1V2B3N4M5K6J7H8"`
	Username   string    `json:"username" example:"alice"`
	Email      string    `json:"email" example:"alice@example.com"`
	FullName   string    `json:"fullName" example:"Alice Example"`
	Avatar     string    `json:"avatar" example:"https://cdn.example.com/avatars/2025/01/02/4f1c.png"`
	CoverImage string    `json:"coverImage" example:""`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RegisterRequest carries the text fields and local file paths for the
// multipart registration form.
type RegisterRequest struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// LoginRequest is the JSON body of POST /api/v1/users/login. Either Username
// or Email identifies the account.
type LoginRequest struct {
	Username string `json:"username,omitempty" example:"alice"`
	Email    string `json:"email,omitempty" example:"alice@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// LoginData is the data payload of a successful login.
type LoginData struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshRequest is the JSON body of POST /api/v1/users/refresh-token. The
// refreshToken cookie takes precedence when both are sent.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// TokenData is the data payload of a successful refresh.
type TokenData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty is the data payload of logout.
type Empty struct{}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the credential store connection status
	Database string `json:"database"`
}
