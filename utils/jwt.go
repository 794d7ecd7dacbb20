package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"telecare/models"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs and verifies HS256 identity tokens.
type TokenIssuer struct {
	Secret []byte
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &TokenIssuer{Secret: []byte(secret)}, nil
}

// GenerateToken creates a signed token for the identity that expires after duration.
func (ti *TokenIssuer) GenerateToken(id models.Identity, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  id.UserID,
		"role": string(id.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.Secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func (ti *TokenIssuer) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return ti.Secret, nil
	})
}

// ParseIdentity validates the token and extracts the caller and the token expiry.
func (ti *TokenIssuer) ParseIdentity(tokenString string) (models.Identity, time.Time, error) {
	token, err := ti.ValidateToken(tokenString)
	if err != nil {
		return models.Identity{}, time.Time{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Identity{}, time.Time{}, ErrInvalidToken
	}

	// v3 only checks exp when present; a token without one would never lapse.
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return models.Identity{}, time.Time{}, ErrInvalidToken
	}
	expSecs, ok := claims["exp"].(float64)
	if !ok {
		return models.Identity{}, time.Time{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	id := models.Identity{UserID: sub, Role: models.Role(role)}
	if sub == "" {
		return models.Identity{}, time.Time{}, ErrInvalidToken
	}
	switch id.Role {
	case models.RolePatient, models.RoleDoctor, models.RoleAdmin:
	default:
		return models.Identity{}, time.Time{}, ErrInvalidToken
	}

	return id, time.Unix(int64(expSecs), 0), nil
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
