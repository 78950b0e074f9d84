package auth

import "context"

type AuthService interface {
	// Login checks the administrator credentials and issues an access token.
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// Logout revokes the given access token until it expires.
	Logout(ctx context.Context, token string) error
}
