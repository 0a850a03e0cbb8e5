package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleEditor is the only role the editorial services know about.
// Every mutating route requires it.
const RoleEditor = "editor"

// Claims represents the JWT claims carried by editor tokens.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Manager handles signing and validation of editor tokens.
type Manager struct {
	secret string
}

// NewManager creates a new JWT manager.
func NewManager(secret string) *Manager {
	return &Manager{secret: secret}
}

// GenerateEditorToken signs a token for the given editor email with
// the requested lifetime (HS256).
func (m *Manager) GenerateEditorToken(email string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)

	claims := Claims{
		Email: email,
		Role:  RoleEditor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// ValidateToken validates and parses a token string.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// ValidateEditorToken validates a token and checks it carries the
// editor role.
func (m *Manager) ValidateEditorToken(tokenString string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Role != RoleEditor {
		return nil, fmt.Errorf("invalid token role: expected %s, got %s", RoleEditor, claims.Role)
	}

	return claims, nil
}
