package domain

import (
	"context"
	"errors"
	"time"
)

// ---------- Errores de dominio ----------
var (
	ErrEventoNotFound  = errors.New("evento no encontrado")
	ErrNoEsOrganizador = errors.New("no tienes permisos sobre este evento")
	ErrNoAutenticado   = errors.New("usuario no autenticado")
	ErrCamposVacios    = errors.New("todos los campos son obligatorios")
)

// ---------- Interfaces (Ports) ----------

// EventoRepository define las operaciones persistentes sobre la colección de
// eventos. Los timestamps los asigna el almacén en la escritura.
type EventoRepository interface {
	// Create inserta el documento y devuelve el id generado.
	Create(ctx context.Context, e *Evento) (string, error)

	// Debe devolver ErrEventoNotFound si no existe. Devuelve el documento
	// aunque esté inactivo (el borrado es lógico).
	GetByID(ctx context.Context, id string) (*Evento, error)

	// ListActive devuelve los eventos con isActive == true, más recientes
	// primero.
	ListActive(ctx context.Context) ([]*Evento, error)

	// ListConfirmados devuelve los eventos activos donde asistentes
	// contiene el uid.
	ListConfirmados(ctx context.Context, uid string) ([]*Evento, error)

	// ListCreados devuelve los eventos activos con organizadorId == uid.
	ListCreados(ctx context.Context, uid string) ([]*Evento, error)

	// AddAsistente añade el uid al conjunto de asistentes (set-union:
	// re-confirmar es un no-op). Debe devolver ErrEventoNotFound si el
	// documento no existe.
	AddAsistente(ctx context.Context, eventoID, uid string) error

	// RemoveAsistente quita el uid del conjunto (set-remove: quitar a un
	// no-miembro es un no-op).
	RemoveAsistente(ctx context.Context, eventoID, uid string) error

	// UpdateOwned aplica los cambios en una única escritura condicionada a
	// organizadorId == ownerUID. Debe devolver ErrEventoNotFound o
	// ErrNoEsOrganizador según corresponda.
	UpdateOwned(ctx context.Context, eventoID, ownerUID string, cambios Cambios) error

	// SoftDeleteOwned pone isActive=false con la misma condición de
	// propiedad que UpdateOwned. El documento nunca se elimina físicamente.
	SoftDeleteOwned(ctx context.Context, eventoID, ownerUID string) error
}

// PerfilResumen es lo mínimo que el almacén de eventos necesita de un perfil
// para desnormalizar el nombre del organizador.
type PerfilResumen struct {
	Username    string
	DisplayName string
}

// ProfileReader lee perfiles del gateway de identidad. Devuelve nil sin
// error si el perfil no existe.
type ProfileReader interface {
	GetPerfil(ctx context.Context, uid string) (*PerfilResumen, error)
}

// ---------- Analítica de asistencia ----------

// AsistenciaLog es una fila append-only del log analítico.
type AsistenciaLog struct {
	EventoID  string
	UID       string
	Accion    string // "confirmada" | "cancelada"
	EventTime time.Time
}

// AsistenciaDiaria agrega confirmaciones y cancelaciones por día.
type AsistenciaDiaria struct {
	Day         time.Time
	Confirmadas uint64
	Canceladas  uint64
}

// AsistenciaAnalytics registra la actividad de asistencia para analítica.
type AsistenciaAnalytics interface {
	LogAsistencia(ctx context.Context, entry AsistenciaLog) error
	GetDailyTrend(ctx context.Context, start, end time.Time) ([]AsistenciaDiaria, error)
}
