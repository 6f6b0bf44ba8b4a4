package service

import "errors"

// ErrInvalidToken wraps every token verification failure. The jwtx cause is
// kept in the chain for logging.
var ErrInvalidToken = errors.New("invalid token")

// Client-facing messages. They are part of the API contract, so tests match
// on them.
const (
	msgIdentifierRequired = "username or email is required"
	msgUserNotFound       = "user does not exist"
	msgInvalidCredentials = "invalid user credentials"

	msgInvalidAccessToken  = "invalid access token"
	msgUnauthorizedRequest = "unauthorized request"
	msgInvalidRefreshToken = "invalid refresh token"
	msgRefreshTokenUsed    = "refresh token is expired or used"
	msgTokenGeneration     = "something went wrong while generating refresh and access token"

	msgAllFieldsRequired = "all fields are required"
	msgUserExists        = "user with email or username already exists"
	msgAvatarRequired    = "avatar file is required"
	msgRegisterFailed    = "something went wrong while registering the user"
)
