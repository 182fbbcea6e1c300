// Package profiles adapta el repositorio de perfiles del gateway de
// identidad al puerto ProfileReader del contexto de eventos.
package profiles

import (
	"context"
	"errors"

	authDomain "github.com/vivento/vivento/internal/auth/domain"
	eventoDomain "github.com/vivento/vivento/internal/evento/domain"
)

type AuthProfileReader struct {
	profiles authDomain.ProfileRepository
}

func NewAuthProfileReader(profiles authDomain.ProfileRepository) *AuthProfileReader {
	return &AuthProfileReader{profiles: profiles}
}

// GetPerfil devuelve nil sin error si el perfil no existe: el servicio de
// eventos cae entonces en el nombre de organizador por defecto.
func (r *AuthProfileReader) GetPerfil(ctx context.Context, uid string) (*eventoDomain.PerfilResumen, error) {
	user, err := r.profiles.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &eventoDomain.PerfilResumen{
		Username:    user.Username,
		DisplayName: user.DisplayName,
	}, nil
}

// Verificación estática
var _ eventoDomain.ProfileReader = (*AuthProfileReader)(nil)
