/*
Package authsdk provides a client SDK for the tubetab account service, and the
response and error types the service itself writes.

# Client vs Session

  - Client: registration, login, refresh, logout and the health probes
  - Session: a logged-in user holding the current token pair

Typical use:

	client := authsdk.NewClient("https://accounts.example.com")

	user, err := client.Register(ctx, authsdk.RegisterRequest{
		FullName:   "Alice Example",
		Email:      "alice@example.com",
		Username:   "alice",
		Password:   "correct horse battery staple",
		AvatarPath: "./alice.png",
	})

	session, err := client.Login(ctx, authsdk.LoginRequest{
		Username: "alice",
		Password: "correct horse battery staple",
	})

	// Rotate the pair, the old refresh token is dead afterwards
	err = session.Refresh(ctx)

	err = session.Logout(ctx)

# Envelope

Every /api/v1 response is wrapped as

	{"statusCode": 200, "data": {...}, "message": "...", "success": true}

and failures carry "data": null and "success": false. The SDK unwraps the
envelope and hands back the data.

# Error Handling

Non-2xx responses come back as *APIError. Match the kind with errors.Is
against the sentinels, which compare by status code only:

	_, err := client.Refresh(ctx, stale)
	if errors.Is(err, authsdk.ErrUnauthorized) {
		// token expired or already used, log in again
	}

The service uses the same type: its handlers return *APIError values and a
single boundary writes them with WriteError.

# Thread Safety

Sessions are safe for concurrent use. Refresh holds the session lock across
the network call, so concurrent callers never replay the same refresh token.
*/
package authsdk
