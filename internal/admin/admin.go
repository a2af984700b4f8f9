// Package admin authenticates the operator who may stop the pipeline and replace the
// replay scene.
package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	OperatorRole = "operator"
	TokenTTL     = 12 * time.Hour
)

var (
	ErrNotConfigured = errors.New("operator password is not configured")
	ErrBadPassword   = errors.New("invalid operator password")
	ErrInvalidToken  = errors.New("invalid operator token")
)

// HashPassword returns the bcrypt hash to put in OPERATOR_PASSWORD_HASH.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword checks plain against the stored hash.
func VerifyPassword(hashed, plain string) error {
	if hashed == "" {
		return ErrNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return ErrBadPassword
	}
	return nil
}

// IssueToken signs an HS256 operator token valid for ttl.
func IssueToken(secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"role": OperatorRole,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// ParseToken validates an operator token.
func ParseToken(secret, token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidToken
	}
	if role, _ := claims["role"].(string); role != OperatorRole {
		return ErrInvalidToken
	}
	return nil
}
