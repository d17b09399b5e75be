package auth

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// TokenManager issues and verifies the HS256 access tokens carried by
// API clients.
type TokenManager struct {
	key jwk.Key
	ttl time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("set JWT_SECRET")
	}

	key, err := jwk.Import([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("import signing key: %w", err)
	}

	return &TokenManager{key: key, ttl: ttl}, nil
}

func (m *TokenManager) Issue(userID, email string) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(m.ttl)).
		Claim("email", email).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// Verify parses and validates a signed token, returning the user id and
// email claims.
func (m *TokenManager) Verify(raw string) (string, string, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
	)
	if err != nil {
		return "", "", fmt.Errorf("parse token: %w", err)
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		return "", "", fmt.Errorf("token has no subject claim")
	}

	var email string
	// email is optional on older tokens
	_ = token.Get("email", &email)

	return userID, email, nil
}
