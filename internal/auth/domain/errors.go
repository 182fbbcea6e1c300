package domain

import "errors"

// ---------- Errores de dominio ----------
var (
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrCredencialNotFound = errors.New("credencial no encontrada")
	ErrEmailEnUso         = errors.New("el email ya está registrado")
	ErrNoAutenticado      = errors.New("usuario no autenticado")
	ErrSesionRevocada     = errors.New("la sesión fue revocada")
)

// Códigos de error del proveedor. Se conservan los códigos originales para
// que los clientes existentes no tengan que cambiar su manejo de errores.
const (
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeWeakPassword      = "auth/weak-password"
	CodeInvalidEmail      = "auth/invalid-email"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeTooManyRequests   = "auth/too-many-requests"
	CodeNetworkFailed     = "auth/network-request-failed"
)

// mensajes traduce cada código conocido a un mensaje para el usuario.
// Un código desconocido cae en el mensaje genérico de reintento.
var mensajes = map[string]string{
	CodeUserNotFound:      "No existe una cuenta con este correo",
	CodeWrongPassword:     "Contraseña incorrecta",
	CodeEmailAlreadyInUse: "Este correo ya está registrado",
	CodeWeakPassword:      "La contraseña debe tener al menos 6 caracteres",
	CodeInvalidEmail:      "Correo electrónico inválido",
	CodeInvalidCredential: "Credenciales incorrectas. Verifica tu correo y contraseña",
	CodeTooManyRequests:   "Demasiados intentos fallidos. Intenta más tarde",
	CodeNetworkFailed:     "Error de conexión. Verifica tu internet",
}

const mensajeGenerico = "Error al autenticar. Intenta nuevamente"

// AuthError es un fallo de credenciales o del proveedor, con el mensaje
// para el usuario ya resuelto desde la tabla de códigos.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError construye el error a partir del código del proveedor.
func NewAuthError(code string) *AuthError {
	msg, ok := mensajes[code]
	if !ok {
		msg = mensajeGenerico
	}
	return &AuthError{Code: code, Message: msg}
}

// AsAuthError extrae un *AuthError de una cadena de errores, si lo hay.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
