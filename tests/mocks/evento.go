package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	eventoDomain "github.com/vivento/vivento/internal/evento/domain"
)

// InMemoryEventoRepo simula EventoRepository con semántica de conjunto para
// asistentes y timestamps crecientes para que el orden de listado sea
// determinista en los tests.
type InMemoryEventoRepo struct {
	Eventos map[string]*eventoDomain.Evento
	mu      sync.Mutex
	seq     int
	base    time.Time

	// FallarLecturas fuerza errores en GetByID para probar el fail-closed.
	FallarLecturas error
}

func NewInMemoryEventoRepo() *InMemoryEventoRepo {
	return &InMemoryEventoRepo{
		Eventos: make(map[string]*eventoDomain.Evento),
		base:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *InMemoryEventoRepo) Create(ctx context.Context, e *eventoDomain.Evento) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	copia := *e
	copia.ID = uuid.NewString()
	copia.Asistentes = []string{}
	copia.IsActive = true
	copia.CreatedAt = r.base.Add(time.Duration(r.seq) * time.Second)
	copia.UpdatedAt = copia.CreatedAt
	r.Eventos[copia.ID] = &copia
	return copia.ID, nil
}

func (r *InMemoryEventoRepo) GetByID(ctx context.Context, id string) (*eventoDomain.Evento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FallarLecturas != nil {
		return nil, r.FallarLecturas
	}
	e, ok := r.Eventos[id]
	if !ok {
		return nil, eventoDomain.ErrEventoNotFound
	}
	copia := *e
	copia.Asistentes = append([]string{}, e.Asistentes...)
	return &copia, nil
}

func (r *InMemoryEventoRepo) ListActive(ctx context.Context) ([]*eventoDomain.Evento, error) {
	return r.filtrar(func(e *eventoDomain.Evento) bool {
		return e.IsActive
	})
}

func (r *InMemoryEventoRepo) ListConfirmados(ctx context.Context, uid string) ([]*eventoDomain.Evento, error) {
	return r.filtrar(func(e *eventoDomain.Evento) bool {
		return e.IsActive && e.TieneAsistente(uid)
	})
}

func (r *InMemoryEventoRepo) ListCreados(ctx context.Context, uid string) ([]*eventoDomain.Evento, error) {
	return r.filtrar(func(e *eventoDomain.Evento) bool {
		return e.IsActive && e.OrganizadorID == uid
	})
}

func (r *InMemoryEventoRepo) AddAsistente(ctx context.Context, eventoID, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.Eventos[eventoID]
	if !ok {
		return eventoDomain.ErrEventoNotFound
	}
	if !e.TieneAsistente(uid) {
		e.Asistentes = append(e.Asistentes, uid)
	}
	e.UpdatedAt = e.UpdatedAt.Add(time.Second)
	return nil
}

func (r *InMemoryEventoRepo) RemoveAsistente(ctx context.Context, eventoID, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.Eventos[eventoID]
	if !ok {
		return eventoDomain.ErrEventoNotFound
	}
	filtrados := e.Asistentes[:0]
	for _, a := range e.Asistentes {
		if a != uid {
			filtrados = append(filtrados, a)
		}
	}
	e.Asistentes = filtrados
	e.UpdatedAt = e.UpdatedAt.Add(time.Second)
	return nil
}

func (r *InMemoryEventoRepo) UpdateOwned(ctx context.Context, eventoID, ownerUID string, cambios eventoDomain.Cambios) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.Eventos[eventoID]
	if !ok {
		return eventoDomain.ErrEventoNotFound
	}
	if e.OrganizadorID != ownerUID {
		return eventoDomain.ErrNoEsOrganizador
	}
	cambios.Aplicar(e)
	e.UpdatedAt = e.UpdatedAt.Add(time.Second)
	return nil
}

func (r *InMemoryEventoRepo) SoftDeleteOwned(ctx context.Context, eventoID, ownerUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.Eventos[eventoID]
	if !ok {
		return eventoDomain.ErrEventoNotFound
	}
	if e.OrganizadorID != ownerUID {
		return eventoDomain.ErrNoEsOrganizador
	}
	e.IsActive = false
	e.UpdatedAt = e.UpdatedAt.Add(time.Second)
	return nil
}

func (r *InMemoryEventoRepo) filtrar(pred func(*eventoDomain.Evento) bool) ([]*eventoDomain.Evento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lista []*eventoDomain.Evento
	for _, e := range r.Eventos {
		if pred(e) {
			copia := *e
			copia.Asistentes = append([]string{}, e.Asistentes...)
			lista = append(lista, &copia)
		}
	}
	eventoDomain.SortPorCreacionDesc(lista)
	return lista, nil
}

// StaticProfileReader devuelve perfiles fijados por los tests.
type StaticProfileReader struct {
	Perfiles map[string]*eventoDomain.PerfilResumen
	Err      error
}

func (r *StaticProfileReader) GetPerfil(ctx context.Context, uid string) (*eventoDomain.PerfilResumen, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Perfiles[uid], nil
}

// InMemoryAnalytics captura el log de asistencia.
type InMemoryAnalytics struct {
	mu      sync.Mutex
	Entries []eventoDomain.AsistenciaLog
}

func (a *InMemoryAnalytics) LogAsistencia(ctx context.Context, entry eventoDomain.AsistenciaLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Entries = append(a.Entries, entry)
	return nil
}

func (a *InMemoryAnalytics) GetDailyTrend(ctx context.Context, start, end time.Time) ([]eventoDomain.AsistenciaDiaria, error) {
	return nil, nil
}

// Len devuelve el número de entradas registradas, con el lock que exige el
// productor en background.
func (a *InMemoryAnalytics) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Entries)
}

// Verificación estática de las interfaces.
var (
	_ eventoDomain.EventoRepository    = (*InMemoryEventoRepo)(nil)
	_ eventoDomain.ProfileReader       = (*StaticProfileReader)(nil)
	_ eventoDomain.AsistenciaAnalytics = (*InMemoryAnalytics)(nil)
)
