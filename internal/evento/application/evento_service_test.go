package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/vivento/vivento/internal/evento/domain"
	"github.com/vivento/vivento/tests/mocks"
)

func newTestService(repo *mocks.InMemoryEventoRepo, perfiles map[string]*domain.PerfilResumen) (*EventoService, *mocks.DummyPublisher) {
	events := &mocks.DummyPublisher{}
	profiles := &mocks.StaticProfileReader{Perfiles: perfiles}
	service := NewEventoService(repo, profiles, nil, events, nil, zap.NewNop())
	return service, events
}

func crearEvento(t *testing.T, s *EventoService, uid, nombre string) string {
	t.Helper()
	id, err := s.CreateEvent(context.Background(), uid, nombre, "desc", "Madrid", "2025-06-15", "18:00")
	assert.NoError(t, err)
	return id
}

func TestCreateEvent_DesnormalizaNombreOrganizador(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, events := newTestService(repo, map[string]*domain.PerfilResumen{
		"uid-1": {Username: "maria23", DisplayName: "María"},
	})

	id := crearEvento(t, service, "uid-1", "Concierto")

	e, err := service.GetEventByID(context.Background(), id)
	assert.NoError(t, err)
	assert.NotNil(t, e)
	assert.Equal(t, "maria23", e.OrganizadorNombre)
	assert.Equal(t, "uid-1", e.OrganizadorID)
	assert.True(t, e.IsActive)
	assert.Equal(t, []string{}, e.Asistentes)

	// ✅ Se publica el evento de integración
	assert.Contains(t, events.Types(), domain.EventoCreado)
}

func TestCreateEvent_FallbackDisplayNameYDefecto(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, map[string]*domain.PerfilResumen{
		"uid-display": {DisplayName: "Sólo Display"},
	})

	// Username vacío: cae a displayName
	id := crearEvento(t, service, "uid-display", "Feria")
	e, _ := service.GetEventByID(context.Background(), id)
	assert.Equal(t, "Sólo Display", e.OrganizadorNombre)

	// Perfil inexistente: cae al literal por defecto
	id2 := crearEvento(t, service, "uid-sin-perfil", "Teatro")
	e2, _ := service.GetEventByID(context.Background(), id2)
	assert.Equal(t, "Organizador", e2.OrganizadorNombre)
}

func TestCreateEvent_SinSesion(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	_, err := service.CreateEvent(context.Background(), "", "Concierto", "desc", "Madrid", "2025-06-15", "18:00")
	assert.ErrorIs(t, err, domain.ErrNoAutenticado)
}

func TestCreateEvent_CamposVacios(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	_, err := service.CreateEvent(context.Background(), "uid-1", "", "desc", "Madrid", "2025-06-15", "18:00")
	assert.ErrorIs(t, err, domain.ErrCamposVacios)

	_, err = service.CreateEvent(context.Background(), "uid-1", "Concierto", "desc", "Madrid", "2025-06-15", "")
	assert.ErrorIs(t, err, domain.ErrCamposVacios)
}

func TestGetAllEvents_MasRecientesPrimero(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	crearEvento(t, service, "uid-1", "Primero")
	crearEvento(t, service, "uid-1", "Segundo")
	crearEvento(t, service, "uid-1", "Tercero")

	lista, err := service.GetAllEvents(context.Background())
	assert.NoError(t, err)
	assert.Len(t, lista, 3)
	assert.Equal(t, "Tercero", lista[0].Nombre)
	assert.Equal(t, "Primero", lista[2].Nombre)
}

func TestGetEventByID_NoExiste(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	// Ausencia no es error: nil sin error
	e, err := service.GetEventByID(context.Background(), "no-existe")
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestGetEventByID_DesdeCache(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	cache := mocks.NewDummyCache()
	profiles := &mocks.StaticProfileReader{}
	service := NewEventoService(repo, profiles, cache, nil, nil, zap.NewNop())

	cacheado := &domain.Evento{ID: "ev-cache", Nombre: "Desde cache", IsActive: true}
	cache.SetForTest(domain.CacheKeyByID("ev-cache"), cacheado)

	e, err := service.GetEventByID(context.Background(), "ev-cache")
	assert.NoError(t, err)
	assert.NotNil(t, e)
	assert.Equal(t, "Desde cache", e.Nombre)
}

func TestConfirmAttendance_Idempotente(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, events := newTestService(repo, nil)

	id := crearEvento(t, service, "uid-org", "Concierto")

	assert.NoError(t, service.ConfirmAttendance(context.Background(), "uid-a", id))
	assert.NoError(t, service.ConfirmAttendance(context.Background(), "uid-a", id))

	e, _ := service.GetEventByID(context.Background(), id)
	assert.Equal(t, []string{"uid-a"}, e.Asistentes)
	assert.True(t, service.HasUserConfirmed(context.Background(), "uid-a", id))

	// Cada confirmación publica, aunque la segunda no cambie el conjunto
	tipos := events.Types()
	assert.Equal(t, []string{domain.EventoCreado, domain.AsistenciaConfirmada, domain.AsistenciaConfirmada}, tipos)
}

func TestCancelAttendance_NoMiembroEsNoOp(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	id := crearEvento(t, service, "uid-org", "Concierto")
	service.ConfirmAttendance(context.Background(), "uid-a", id)

	// Cancelar a alguien que nunca confirmó no es error ni toca el conjunto
	assert.NoError(t, service.CancelAttendance(context.Background(), "uid-b", id))

	e, _ := service.GetEventByID(context.Background(), id)
	assert.Equal(t, []string{"uid-a"}, e.Asistentes)
}

func TestAsistencia_ConfirmarYCancelarVuelveAlOrigen(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	id := crearEvento(t, service, "uid-org", "Concierto")

	assert.NoError(t, service.ConfirmAttendance(context.Background(), "uid-a", id))
	assert.NoError(t, service.CancelAttendance(context.Background(), "uid-a", id))

	e, _ := service.GetEventByID(context.Background(), id)
	assert.Equal(t, []string{}, e.Asistentes)
	assert.False(t, service.HasUserConfirmed(context.Background(), "uid-a", id))
}

func TestConfirmAttendance_EventoInexistente(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	err := service.ConfirmAttendance(context.Background(), "uid-a", "no-existe")
	assert.ErrorIs(t, err, domain.ErrEventoNotFound)
}

func TestUpdateEvent_SoloOrganizador(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	id := crearEvento(t, service, "uid-org", "Original")

	nuevo := "Editado"
	err := service.UpdateEvent(context.Background(), "uid-intruso", id, domain.Cambios{Nombre: &nuevo})
	assert.ErrorIs(t, err, domain.ErrNoEsOrganizador)

	// El documento queda intacto tras el intento ajeno
	e, _ := service.GetEventByID(context.Background(), id)
	assert.Equal(t, "Original", e.Nombre)

	err = service.UpdateEvent(context.Background(), "uid-org", id, domain.Cambios{Nombre: &nuevo})
	assert.NoError(t, err)
	e, _ = service.GetEventByID(context.Background(), id)
	assert.Equal(t, "Editado", e.Nombre)
	assert.Equal(t, "desc", e.Descripcion) // actualización parcial
}

func TestUpdateEvent_NoExiste(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	nuevo := "Editado"
	err := service.UpdateEvent(context.Background(), "uid-org", "no-existe", domain.Cambios{Nombre: &nuevo})
	assert.ErrorIs(t, err, domain.ErrEventoNotFound)
}

func TestDeleteEvent_BorradoLogico(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, events := newTestService(repo, nil)

	id := crearEvento(t, service, "uid-org", "Efímero")
	crearEvento(t, service, "uid-org", "Permanente")

	// Borrado por un no-dueño: rechazado
	assert.ErrorIs(t, service.DeleteEvent(context.Background(), "uid-intruso", id), domain.ErrNoEsOrganizador)

	assert.NoError(t, service.DeleteEvent(context.Background(), "uid-org", id))

	// Desaparece de los listados...
	lista, _ := service.GetAllEvents(context.Background())
	assert.Len(t, lista, 1)
	assert.Equal(t, "Permanente", lista[0].Nombre)

	creados, _ := service.GetUserCreatedEvents(context.Background(), "uid-org")
	assert.Len(t, creados, 1)

	// ...pero la lectura directa lo sigue devolviendo, marcado inactivo
	e, err := service.GetEventByID(context.Background(), id)
	assert.NoError(t, err)
	assert.NotNil(t, e)
	assert.False(t, e.IsActive)

	assert.Contains(t, events.Types(), domain.EventoEliminado)
}

func TestGetUserConfirmedEvents(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	id1 := crearEvento(t, service, "uid-org", "Uno")
	crearEvento(t, service, "uid-org", "Dos")
	id3 := crearEvento(t, service, "uid-org", "Tres")

	service.ConfirmAttendance(context.Background(), "uid-a", id1)
	service.ConfirmAttendance(context.Background(), "uid-a", id3)

	confirmados, err := service.GetUserConfirmedEvents(context.Background(), "uid-a")
	assert.NoError(t, err)
	assert.Len(t, confirmados, 2)
	assert.Equal(t, "Tres", confirmados[0].Nombre) // más reciente primero

	_, err = service.GetUserConfirmedEvents(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoAutenticado)
}

func TestHasUserConfirmed_FallaCerrado(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	id := crearEvento(t, service, "uid-org", "Concierto")
	service.ConfirmAttendance(context.Background(), "uid-a", id)

	// Sin sesión
	assert.False(t, service.HasUserConfirmed(context.Background(), "", id))
	// Evento inexistente
	assert.False(t, service.HasUserConfirmed(context.Background(), "uid-a", "no-existe"))

	// Error del almacén: también false, nunca error
	repo.FallarLecturas = errors.New("timeout")
	assert.False(t, service.HasUserConfirmed(context.Background(), "uid-a", id))
}

func TestGetAttendanceTrend_SinBackend(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, nil)

	trend, err := service.GetAttendanceTrend(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	assert.NoError(t, err)
	assert.Nil(t, trend)
}

func TestRegistraAsistenciaEnAnalitica(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	analytics := &mocks.InMemoryAnalytics{}
	profiles := &mocks.StaticProfileReader{}
	service := NewEventoService(repo, profiles, nil, nil, analytics, zap.NewNop())

	id, err := service.CreateEvent(context.Background(), "uid-org", "Concierto", "desc", "Madrid", "2025-06-15", "18:00")
	assert.NoError(t, err)

	assert.NoError(t, service.ConfirmAttendance(context.Background(), "uid-a", id))
	assert.NoError(t, service.CancelAttendance(context.Background(), "uid-a", id))

	// El log analítico se alimenta en background
	assert.Eventually(t, func() bool {
		return analytics.Len() == 2
	}, time.Second, 10*time.Millisecond)
}

// Escenario completo: una boda con confirmaciones, edición y borrado.
func TestEscenarioBoda(t *testing.T) {
	repo := mocks.NewInMemoryEventoRepo()
	service, _ := newTestService(repo, map[string]*domain.PerfilResumen{
		"uid-novia": {Username: "lucia_g"},
	})
	ctx := context.Background()

	id := crearEvento(t, service, "uid-novia", "Boda de Lucía")

	for _, invitado := range []string{"uid-1", "uid-2", "uid-3"} {
		assert.NoError(t, service.ConfirmAttendance(ctx, invitado, id))
	}
	assert.NoError(t, service.CancelAttendance(ctx, "uid-2", id))

	e, _ := service.GetEventByID(ctx, id)
	assert.Equal(t, "lucia_g", e.OrganizadorNombre)
	assert.ElementsMatch(t, []string{"uid-1", "uid-3"}, e.Asistentes)

	nuevaUbicacion := "Finca El Robledal"
	assert.NoError(t, service.UpdateEvent(ctx, "uid-novia", id, domain.Cambios{Ubicacion: &nuevaUbicacion}))

	e, _ = service.GetEventByID(ctx, id)
	assert.Equal(t, "Finca El Robledal", e.Ubicacion)
	assert.ElementsMatch(t, []string{"uid-1", "uid-3"}, e.Asistentes) // la edición no toca asistentes

	assert.NoError(t, service.DeleteEvent(ctx, "uid-novia", id))
	lista, _ := service.GetAllEvents(ctx)
	assert.Empty(t, lista)
}
