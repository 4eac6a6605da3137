package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails validation: bad
// signature, expired, malformed, or wrong signing method.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload issued at login and registration. The household
// id embedded here is what the websocket layer checks room joins against.
type Claims struct {
	UserID      int64  `json:"user_id"`
	HouseholdID int64  `json:"household_id"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates the bearer tokens used by the REST API
// and the websocket handshake.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Generate creates a signed HS256 token for the given user.
func (t *TokenIssuer) Generate(userID int64, username string, householdID int64, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:      userID,
		HouseholdID: householdID,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "hearth",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses the token string and returns its claims. Only HS256 is
// accepted; all failures collapse to ErrInvalidToken so callers cannot
// leak parse details to clients.
func (t *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
