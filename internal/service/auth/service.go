package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"

	"github.com/asistencia-qr/attendance-backend-go/internal/config"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/auth"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	jwt.Service
	admin config.AdminConfig
}

func NewAuthService(admin config.AdminConfig, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		Service: jwtService,
		admin:   admin,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.LoginResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	username := strings.TrimSpace(loginReq.Username)
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.admin.Username)) == 1
	// the hash is checked even for an unknown username
	passwordErr := bcrypt.CompareHashAndPassword([]byte(a.admin.PasswordHash), []byte(loginReq.Password))
	if !usernameOK || passwordErr != nil {
		slog.Warn("admin login rejected", "username", username)
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(a.admin.Username)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("admin logged in", "username", a.admin.Username)
	return auth.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Username:    a.admin.Username,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	if a.Service.IsTokenRevoked(token) {
		return auth.ErrTokenRevoked
	}
	a.Service.RevokeToken(token)
	return nil
}
