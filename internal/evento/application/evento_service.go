package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vivento/vivento/internal/evento/domain"
	sharedEvents "github.com/vivento/vivento/internal/shared/events"
	sharedBus "github.com/vivento/vivento/internal/shared/infra/platform/bus"
	sharedCache "github.com/vivento/vivento/internal/shared/infra/platform/cache"
)

// Nombre usado cuando el perfil del organizador no aporta ninguno.
const organizadorPorDefecto = "Organizador"

// EventoService define los casos de uso del almacén de eventos. Todas las
// operaciones que requieren sesión reciben el uid del llamante de forma
// explícita; aquí no hay sesión ambiente.
type EventoService struct {
	repo      domain.EventoRepository
	profiles  domain.ProfileReader
	cache     sharedCache.Cache
	events    sharedBus.EventPublisher
	analytics domain.AsistenciaAnalytics
	log       *zap.Logger
}

// NewEventoService constructor. cache, events y analytics pueden ser nil.
func NewEventoService(
	repo domain.EventoRepository,
	profiles domain.ProfileReader,
	cache sharedCache.Cache,
	events sharedBus.EventPublisher,
	analytics domain.AsistenciaAnalytics,
	log *zap.Logger,
) *EventoService {
	return &EventoService{
		repo:      repo,
		profiles:  profiles,
		cache:     cache,
		events:    events,
		analytics: analytics,
		log:       log,
	}
}

// CreateEvent da de alta un evento del llamante. El nombre del organizador se
// desnormaliza del perfil en este momento: username, si no displayName, si no
// el literal por defecto. Devuelve el id generado por el almacén.
func (s *EventoService) CreateEvent(ctx context.Context, callerUID, nombre, descripcion, ubicacion, fecha, hora string) (string, error) {
	if callerUID == "" {
		return "", domain.ErrNoAutenticado
	}
	if nombre == "" || descripcion == "" || ubicacion == "" || fecha == "" || hora == "" {
		return "", domain.ErrCamposVacios
	}

	organizadorNombre := organizadorPorDefecto
	perfil, err := s.profiles.GetPerfil(ctx, callerUID)
	if err != nil {
		return "", err
	}
	if perfil != nil {
		switch {
		case perfil.Username != "":
			organizadorNombre = perfil.Username
		case perfil.DisplayName != "":
			organizadorNombre = perfil.DisplayName
		}
	}

	evento := &domain.Evento{
		Nombre:            nombre,
		Descripcion:       descripcion,
		Ubicacion:         ubicacion,
		Fecha:             fecha,
		Hora:              hora,
		OrganizadorID:     callerUID,
		OrganizadorNombre: organizadorNombre,
		Asistentes:        []string{},
		IsActive:          true,
	}

	id, err := s.repo.Create(ctx, evento)
	if err != nil {
		return "", err
	}
	evento.ID = id

	s.publicar(ctx, domain.EventoCreado, id, evento)
	return id, nil
}

// GetAllEvents devuelve todos los eventos activos, más recientes primero.
// Sin paginación: se trae el conjunto activo completo en cada llamada.
func (s *EventoService) GetAllEvents(ctx context.Context) ([]*domain.Evento, error) {
	return s.repo.ListActive(ctx)
}

// GetEventByID obtiene un evento (primero intenta desde cache). Devuelve nil
// sin error si no existe. Un evento inactivo sí se devuelve: el soft delete
// sólo lo oculta de los listados.
func (s *EventoService) GetEventByID(ctx context.Context, id string) (*domain.Evento, error) {
	if s.cache != nil {
		var e domain.Evento
		if ok, _ := s.cache.Get(ctx, domain.CacheKeyByID(id), &e); ok {
			return &e, nil
		}
	}

	evento, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventoNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if s.cache != nil {
		go func(e *domain.Evento) {
			ctxCache, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			_ = s.cache.Set(ctxCache, domain.CacheKeyByID(e.ID), e, 60)
		}(evento)
	}

	return evento, nil
}

// ConfirmAttendance añade al llamante al conjunto de asistentes. Es
// idempotente: re-confirmar no es un error ni duplica el uid.
func (s *EventoService) ConfirmAttendance(ctx context.Context, callerUID, eventoID string) error {
	if callerUID == "" {
		return domain.ErrNoAutenticado
	}
	if err := s.repo.AddAsistente(ctx, eventoID, callerUID); err != nil {
		return err
	}

	s.invalidar(eventoID)
	s.registrarAsistencia(eventoID, callerUID, "confirmada")
	s.publicar(ctx, domain.AsistenciaConfirmada, eventoID, map[string]string{
		"eventoId": eventoID,
		"uid":      callerUID,
	})
	return nil
}

// CancelAttendance quita al llamante del conjunto de asistentes. Quitar a un
// no-miembro es un no-op.
func (s *EventoService) CancelAttendance(ctx context.Context, callerUID, eventoID string) error {
	if callerUID == "" {
		return domain.ErrNoAutenticado
	}
	if err := s.repo.RemoveAsistente(ctx, eventoID, callerUID); err != nil {
		return err
	}

	s.invalidar(eventoID)
	s.registrarAsistencia(eventoID, callerUID, "cancelada")
	s.publicar(ctx, domain.AsistenciaCancelada, eventoID, map[string]string{
		"eventoId": eventoID,
		"uid":      callerUID,
	})
	return nil
}

// GetUserConfirmedEvents devuelve los eventos activos donde el llamante está
// confirmado, más recientes primero.
func (s *EventoService) GetUserConfirmedEvents(ctx context.Context, callerUID string) ([]*domain.Evento, error) {
	if callerUID == "" {
		return nil, domain.ErrNoAutenticado
	}
	return s.repo.ListConfirmados(ctx, callerUID)
}

// GetUserCreatedEvents devuelve los eventos activos creados por el llamante.
func (s *EventoService) GetUserCreatedEvents(ctx context.Context, callerUID string) ([]*domain.Evento, error) {
	if callerUID == "" {
		return nil, domain.ErrNoAutenticado
	}
	return s.repo.ListCreados(ctx, callerUID)
}

// UpdateEvent aplica una actualización parcial. La comprobación de propiedad
// va en la propia escritura condicional del repositorio, no en una lectura
// previa, así que no hay ventana de carrera entre comprobar y escribir.
func (s *EventoService) UpdateEvent(ctx context.Context, callerUID, eventoID string, cambios domain.Cambios) error {
	if callerUID == "" {
		return domain.ErrNoAutenticado
	}
	if err := s.repo.UpdateOwned(ctx, eventoID, callerUID, cambios); err != nil {
		return err
	}

	s.invalidar(eventoID)
	s.publicar(ctx, domain.EventoActualizado, eventoID, map[string]interface{}{
		"eventoId": eventoID,
		"campos":   cambios.Campos(),
	})
	return nil
}

// DeleteEvent marca el evento como inactivo (borrado lógico). El documento
// sigue existiendo y GetEventByID lo sigue devolviendo.
func (s *EventoService) DeleteEvent(ctx context.Context, callerUID, eventoID string) error {
	if callerUID == "" {
		return domain.ErrNoAutenticado
	}
	if err := s.repo.SoftDeleteOwned(ctx, eventoID, callerUID); err != nil {
		return err
	}

	s.invalidar(eventoID)
	s.publicar(ctx, domain.EventoEliminado, eventoID, map[string]string{"eventoId": eventoID})
	return nil
}

// HasUserConfirmed indica si el llamante está confirmado en el evento.
// Falla cerrado: sin sesión, evento inexistente o cualquier error del
// almacén devuelven false, nunca un error.
func (s *EventoService) HasUserConfirmed(ctx context.Context, callerUID, eventoID string) bool {
	if callerUID == "" {
		return false
	}
	evento, err := s.repo.GetByID(ctx, eventoID)
	if err != nil {
		return false
	}
	return evento.TieneAsistente(callerUID)
}

// GetAttendanceTrend devuelve la tendencia diaria de asistencia del rango.
// Sin backend analítico configurado devuelve vacío.
func (s *EventoService) GetAttendanceTrend(ctx context.Context, start, end time.Time) ([]domain.AsistenciaDiaria, error) {
	if s.analytics == nil {
		return nil, nil
	}
	return s.analytics.GetDailyTrend(ctx, start, end)
}

func (s *EventoService) invalidar(eventoID string) {
	if s.cache == nil {
		return
	}
	go func() {
		ctxCache, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_ = s.cache.Delete(ctxCache, domain.CacheKeyByID(eventoID))
	}()
}

// registrarAsistencia alimenta el log analítico en background; un backend
// analítico caído no debe afectar a la operación.
func (s *EventoService) registrarAsistencia(eventoID, uid, accion string) {
	if s.analytics == nil {
		return
	}
	go func() {
		ctxLog, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		entry := domain.AsistenciaLog{
			EventoID:  eventoID,
			UID:       uid,
			Accion:    accion,
			EventTime: time.Now().UTC(),
		}
		if err := s.analytics.LogAsistencia(ctxLog, entry); err != nil {
			s.log.Warn("asistencia no registrada en analítica",
				zap.String("eventoId", eventoID), zap.Error(err))
		}
	}()
}

func (s *EventoService) publicar(ctx context.Context, tipo, key string, payload interface{}) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("payload de evento no serializable", zap.String("type", tipo), zap.Error(err))
		return
	}
	evt := sharedEvents.IntegrationEvent{
		ID:        uuid.NewString(),
		Type:      tipo,
		Timestamp: time.Now().UTC(),
		Key:       key,
		Data:      data,
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.log.Warn("evento no publicado", zap.String("type", tipo), zap.Error(err))
	}
}
