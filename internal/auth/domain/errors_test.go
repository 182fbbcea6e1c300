package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAuthError_CodigosConocidos(t *testing.T) {
	casos := map[string]string{
		CodeUserNotFound:      "No existe una cuenta con este correo",
		CodeWrongPassword:     "Contraseña incorrecta",
		CodeEmailAlreadyInUse: "Este correo ya está registrado",
		CodeWeakPassword:      "La contraseña debe tener al menos 6 caracteres",
		CodeInvalidEmail:      "Correo electrónico inválido",
		CodeInvalidCredential: "Credenciales incorrectas. Verifica tu correo y contraseña",
		CodeTooManyRequests:   "Demasiados intentos fallidos. Intenta más tarde",
		CodeNetworkFailed:     "Error de conexión. Verifica tu internet",
	}

	for code, esperado := range casos {
		err := NewAuthError(code)
		assert.Equal(t, code, err.Code)
		assert.Equal(t, esperado, err.Message)
		assert.Equal(t, esperado, err.Error())
	}
}

func TestNewAuthError_CodigoDesconocido(t *testing.T) {
	err := NewAuthError("auth/algo-nuevo-del-proveedor")
	assert.Equal(t, "Error al autenticar. Intenta nuevamente", err.Message)
	assert.Equal(t, "auth/algo-nuevo-del-proveedor", err.Code)
}

func TestAsAuthError(t *testing.T) {
	base := NewAuthError(CodeWrongPassword)
	envuelto := fmt.Errorf("login: %w", base)

	ae, ok := AsAuthError(envuelto)
	assert.True(t, ok)
	assert.Equal(t, CodeWrongPassword, ae.Code)

	_, ok = AsAuthError(errors.New("otro error"))
	assert.False(t, ok)
}
