// Package auth issues and validates the bearer tokens guarding the admin API.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT errors
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
	ErrInvalidSecret   = errors.New("invalid admin secret")
	ErrIssuingDisabled = errors.New("token issuing is disabled: no admin secret configured")
)

const (
	RoleAdmin = "admin"
	issuer    = "adaptive-summarizer"
)

// Claims are the custom JWT claims
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT operations
type JWTManager struct {
	secretKey     []byte
	adminSecret   []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager. An empty secretKey selects a
// random key, so tokens only stay valid for the life of the process.
func NewJWTManager(secretKey, adminSecret string, tokenDuration time.Duration) *JWTManager {
	key := []byte(secretKey)
	if len(key) == 0 {
		key = randomKey()
	}
	if tokenDuration <= 0 {
		tokenDuration = 12 * time.Hour
	}
	return &JWTManager{
		secretKey:     key,
		adminSecret:   []byte(adminSecret),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

func randomKey() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return []byte(hex.EncodeToString(b))
}

// IssueAdminToken exchanges the configured admin secret for a token
func (m *JWTManager) IssueAdminToken(secret string) (string, time.Time, error) {
	if len(m.adminSecret) == 0 {
		return "", time.Time{}, ErrIssuingDisabled
	}
	if subtle.ConstantTimeCompare([]byte(secret), m.adminSecret) != 1 {
		return "", time.Time{}, ErrInvalidSecret
	}
	return m.GenerateToken("admin", RoleAdmin)
}

// GenerateToken signs a token for subject with role
func (m *JWTManager) GenerateToken(subject, role string) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.tokenDuration)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// ValidateToken validates the JWT token
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return m.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrExpiredToken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAdmin validates a token and requires the admin role
func (m *JWTManager) ValidateAdmin(tokenString string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: role %q is not allowed", ErrInvalidToken, claims.Role)
	}
	return claims, nil
}
