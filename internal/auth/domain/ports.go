package domain

import (
	"context"
)

// ---------- Interfaces (Ports) ----------

// CredentialStore persiste las credenciales del gateway de identidad.
type CredentialStore interface {
	// Debe devolver ErrEmailEnUso si ya existe una credencial con ese email.
	Create(ctx context.Context, c *Credencial) error

	// Debe devolver ErrCredencialNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*Credencial, error)
}

// ProfileRepository persiste los perfiles (documentos users/{uid}).
// Los timestamps los asigna el almacén en la escritura, nunca el cliente.
type ProfileRepository interface {
	Create(ctx context.Context, u *User) error

	// Debe devolver ErrUserNotFound si el perfil no existe.
	GetByUID(ctx context.Context, uid string) (*User, error)
}

// FederatedVerifier valida un id_token de un proveedor federado y extrae la
// identidad que contiene.
type FederatedVerifier interface {
	Verify(ctx context.Context, idToken string) (*FederatedIdentity, error)
}
