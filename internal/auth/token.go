package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkralj/workshop-management/internal"
)

// TokenIssuer mints and verifies the HS256 bearer tokens. The secret and
// lifetime come from process configuration, injected once at startup.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(cfg internal.SecurityConfig) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenDuration,
	}
}

// Issue creates a signed token for the given user id, expiring a fixed
// duration from now. The lifetime is not extendable.
func (t *TokenIssuer) Issue(userID string) (string, time.Time, error) {
	expiresAt := time.Now().Add(t.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Validate checks signature and expiry. A bad signature and an expired
// timestamp both come back as ErrTokenInvalid; callers cannot tell them
// apart.
func (t *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal.ErrTokenInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, internal.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, internal.ErrTokenInvalid
	}

	return claims, nil
}
