package jwt

import (
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(username string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	revokedTokens         map[string]int64 // token -> exp
	mu                    sync.RWMutex
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService builds an HS256 signer. accessTokenExpiration is a
// time.ParseDuration string such as "8h".
func NewJWTService(secretKey string, accessTokenExpiration string) (*JWTService, error) {
	expDuration, err := time.ParseDuration(accessTokenExpiration)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpiration: expDuration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:         make(map[string]int64),
		now:                   time.Now,
	}, nil
}

// GenerateAccessToken issues an administrator access token.
func (j *JWTService) GenerateAccessToken(username string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"username": username,
		"is_admin": true,
		"type":     "access",
		"iat":      j.now().Unix(),
		"exp":      expiresAt,
	})
	return tokenString, expiresAt, err
}

// RevokeToken blacklists a token until its own expiry. Expired entries are
// pruned on each revocation.
func (j *JWTService) RevokeToken(token string) {
	exp := j.now().Add(j.accessTokenExpiration).Unix()
	if parsed, err := j.tokenAuth.Decode(token); err == nil && !parsed.Expiration().IsZero() {
		exp = parsed.Expiration().Unix()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now().Unix()
	for t, e := range j.revokedTokens {
		if e < now {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = exp
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}
