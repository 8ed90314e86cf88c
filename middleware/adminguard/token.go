package adminguard

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when no bearer token is present.
	ErrMissingToken = errors.New("missing admin token")
	// ErrInvalidToken is returned when the token is malformed or badly signed.
	ErrInvalidToken = errors.New("invalid admin token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("admin token has expired")
	// ErrInsufficientRole is returned when the token lacks the admin role.
	ErrInsufficientRole = errors.New("admin role required")
)

// Claims are the JWT claims of an admin token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates admin tokens.
type TokenIssuer struct {
	config Config
}

// NewTokenIssuer creates a TokenIssuer with the given configuration.
func NewTokenIssuer(config Config) *TokenIssuer {
	return &TokenIssuer{config: config}
}

// Issue signs a token for subject carrying the configured role.
func (i *TokenIssuer) Issue(subject string) (string, error) {
	return i.issue(subject, i.config.Role, i.config.TokenTTL)
}

func (i *TokenIssuer) issue(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.config.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(i.config.Secret))
}

// Validate parses tokenString and checks signature, issuer, expiry and role.
func (i *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(i.config.Secret), nil
	}, jwt.WithIssuer(i.config.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != i.config.Role {
		return nil, ErrInsufficientRole
	}
	return claims, nil
}
