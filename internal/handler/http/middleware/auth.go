package middleware

import (
	"net/http"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/auth"
	"github.com/asistencia-qr/attendance-backend-go/internal/handler/http/response"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts verified, unrevoked access tokens only. It expects
// jwtauth.Verifier to run first.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(RequestToken(r)) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// TokenFromQuery reads the token from the "token" query parameter, for
// EventSource clients that cannot set headers.
func TokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}

// RequestToken returns the raw token the request was authenticated with.
func RequestToken(r *http.Request) string {
	if token := jwtauth.TokenFromHeader(r); token != "" {
		return token
	}
	return TokenFromQuery(r)
}
