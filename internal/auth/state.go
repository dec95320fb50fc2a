package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// State tokens bind the OAuth redirect to this service. The token is an
// HS256 JWT signed with the app secret whose jti doubles as a one-time nonce
// held in redis; verification checks the signature here and the nonce there.

// IssueState mints a state token valid for ttl and returns it with its nonce.
func IssueState(appSecret string, now time.Time, ttl time.Duration) (string, string, error) {
	if appSecret == "" {
		return "", "", fmt.Errorf("missing app secret")
	}

	nonce := uuid.NewString()
	claims := jwt.RegisteredClaims{
		ID:        nonce,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(appSecret))
	if err != nil {
		return "", "", err
	}
	return signed, nonce, nil
}

// VerifyState checks the state token's signature and expiry against now and
// returns the embedded nonce.
func VerifyState(tokenString, appSecret string, now time.Time) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("missing state")
	}
	if appSecret == "" {
		return "", fmt.Errorf("missing app secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &jwt.RegisteredClaims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(appSecret), nil
	})
	if err != nil {
		return "", err
	}
	if !tok.Valid {
		return "", fmt.Errorf("invalid state token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return "", fmt.Errorf("state expired")
	}
	if claims.ID == "" {
		return "", fmt.Errorf("missing state nonce")
	}
	return claims.ID, nil
}
