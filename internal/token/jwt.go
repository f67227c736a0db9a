// Package token issues and introspects session tokens. A token is a signed
// JWT that is self-describing: it encodes the subject id, the role, and the
// expiry, so both the console and the backend can validate a session without
// extra lookups.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mpcconsole/internal/client/models"
	"mpcconsole/internal/common"
)

// Claims extends the registered claim set with the subject's role.
type Claims struct {
	jwt.RegisteredClaims
	Role models.Role `json:"role"`
}

// Generate signs a token for the given subject valid for validityDuration.
func Generate(userID string, role models.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Role: role,
	})
	return t.SignedString(secretKey)
}

// Parse validates a token and returns its claims. An expired token yields
// common.ErrSessionExpired; any other defect yields common.ErrInvalidToken.
func Parse(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrSessionExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !t.Valid || !claims.Role.Valid() {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
