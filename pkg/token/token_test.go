package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateYParse(t *testing.T) {
	signed, jti, err := Generate("secreto", "uid-1", "organizador", "Ana", "vivento", time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.NotEmpty(t, jti)

	claims, err := Parse("secreto", signed)
	assert.NoError(t, err)
	assert.Equal(t, "uid-1", claims.Subject)
	assert.Equal(t, "organizador", claims.UserType)
	assert.Equal(t, "Ana", claims.Nombre)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "vivento", claims.Issuer)
}

func TestParse_SecretoIncorrecto(t *testing.T) {
	signed, _, err := Generate("secreto", "uid-1", "usuario", "", "vivento", time.Hour)
	assert.NoError(t, err)

	_, err = Parse("otro-secreto", signed)
	assert.ErrorIs(t, err, ErrTokenInvalido)
}

func TestParse_TokenExpirado(t *testing.T) {
	signed, _, err := Generate("secreto", "uid-1", "usuario", "", "vivento", -time.Minute)
	assert.NoError(t, err)

	_, err = Parse("secreto", signed)
	assert.ErrorIs(t, err, ErrTokenInvalido)
}

func TestParse_Basura(t *testing.T) {
	_, err := Parse("secreto", "no.es.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalido)
}
