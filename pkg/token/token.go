// Package token emite y valida los JWT de sesión.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrTokenInvalido = errors.New("token de sesión inválido")

// Claims son las claims propias de una sesión de vivento.
type Claims struct {
	UserType string `json:"userType"`
	Nombre   string `json:"nombre,omitempty"`
	jwt.RegisteredClaims
}

// Generate emite un token firmado con HS256. El subject es el uid del usuario
// y el jti permite revocarlo en el denylist de logout.
func Generate(secret, uid, userType, nombre, issuer string, ttl time.Duration) (string, string, error) {
	jti := uuid.NewString()
	now := time.Now().UTC()
	claims := Claims{
		UserType: userType,
		Nombre:   nombre,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   uid,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// Parse valida firma y expiración, y devuelve las claims.
func Parse(secret, tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalido, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalido
	}
	return claims, nil
}
