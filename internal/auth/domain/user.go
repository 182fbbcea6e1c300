package domain

import (
	"fmt"
	"time"
)

// UserType distingue a los asistentes de los organizadores. Se fija al
// registrarse y la aplicación nunca lo cambia.
type UserType string

const (
	UserTypeUsuario     UserType = "usuario"
	UserTypeOrganizador UserType = "organizador"
)

// User es el perfil persistido en el almacén de documentos, espejo de la
// identidad que gestiona el proveedor de credenciales.
type User struct {
	UID         string    `json:"uid"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	UserType    UserType  `json:"userType"`
	DisplayName string    `json:"displayName,omitempty"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	IsActive    bool      `json:"isActive"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (u *User) PartitionKey() string {
	return u.UID
}

// Credencial es el par identidad/contraseña gestionado por el gateway.
// Las credenciales federadas no tienen hash de contraseña.
type Credencial struct {
	UID          string
	Email        string
	PasswordHash string
}

// Session es la identidad autenticada que consumen las operaciones del
// almacén de eventos. Siempre se pasa explícitamente, nunca es ambiente.
type Session struct {
	UID      string   `json:"uid"`
	Email    string   `json:"email"`
	Nombre   string   `json:"nombre"`
	UserType UserType `json:"userType"`
	Token    string   `json:"token"`
	JTI      string   `json:"-"`
}

// FederatedIdentity es la identidad extraída de un id_token de un proveedor
// federado (Google).
type FederatedIdentity struct {
	UID      string
	Email    string
	Nombre   string
	PhotoURL string
}

// CacheKeyByUID forma una key consistente para la caché de perfiles.
func CacheKeyByUID(uid string) string {
	return fmt.Sprintf("user:uid:%s", uid)
}

// DenylistKey forma la key del denylist de sesiones revocadas.
func DenylistKey(jti string) string {
	return fmt.Sprintf("auth:denylist:%s", jti)
}

// Las constantes de los tipos de evento se definen aquí, como valores string.
const (
	UsuarioRegistrado       = "usuario.registrado"
	SesionIniciada          = "auth.sesion_iniciada"
	PasswordResetSolicitado = "auth.password_reset_solicitado"
)

const AuthTopic = "auth"
