package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	_ "modernc.org/sqlite"

	"github.com/vivento/vivento/internal/evento/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	assert.NoError(t, err)
	assert.NoError(t, InitSQLite(db))
	return db
}

func crearEvento(t *testing.T, repo *EventoRepoSQLite, organizadorUID, nombre string) string {
	t.Helper()
	id, err := repo.Create(context.Background(), &domain.Evento{
		Nombre:            nombre,
		Descripcion:       "desc",
		Ubicacion:         "Madrid",
		Fecha:             "2025-06-15",
		Hora:              "18:00",
		OrganizadorID:     organizadorUID,
		OrganizadorNombre: "Organizadora",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, id)
	return id
}

func TestEventoSQLite_CreateYGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	repo := NewEventoRepoSQLite(db)

	id := crearEvento(t, repo, "uid-org", "Concierto")

	e, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "Concierto", e.Nombre)
	assert.Equal(t, "uid-org", e.OrganizadorID)
	assert.True(t, e.IsActive)
	assert.Equal(t, []string{}, e.Asistentes)
	assert.False(t, e.CreatedAt.IsZero()) // lo pone el motor

	_, err = repo.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrEventoNotFound)
}

func TestEventoSQLite_AsistentesComoConjunto(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	repo := NewEventoRepoSQLite(db)
	ctx := context.Background()

	id := crearEvento(t, repo, "uid-org", "Concierto")

	// Doble confirmación: una sola fila gracias al INSERT OR IGNORE
	assert.NoError(t, repo.AddAsistente(ctx, id, "uid-a"))
	assert.NoError(t, repo.AddAsistente(ctx, id, "uid-a"))
	assert.NoError(t, repo.AddAsistente(ctx, id, "uid-b"))

	e, _ := repo.GetByID(ctx, id)
	assert.Equal(t, []string{"uid-a", "uid-b"}, e.Asistentes)

	// Quitar a un no-miembro es un no-op
	assert.NoError(t, repo.RemoveAsistente(ctx, id, "uid-z"))
	assert.NoError(t, repo.RemoveAsistente(ctx, id, "uid-a"))

	e, _ = repo.GetByID(ctx, id)
	assert.Equal(t, []string{"uid-b"}, e.Asistentes)

	// Sobre un evento inexistente sí es error
	assert.ErrorIs(t, repo.AddAsistente(ctx, "no-existe", "uid-a"), domain.ErrEventoNotFound)
}

func TestEventoSQLite_UpdateOwned(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	repo := NewEventoRepoSQLite(db)
	ctx := context.Background()

	id := crearEvento(t, repo, "uid-org", "Original")

	nombre := "Editado"
	ubicacion := "Sevilla"
	cambios := domain.Cambios{Nombre: &nombre, Ubicacion: &ubicacion}

	// Un no-dueño no toca nada
	assert.ErrorIs(t, repo.UpdateOwned(ctx, id, "uid-intruso", cambios), domain.ErrNoEsOrganizador)
	e, _ := repo.GetByID(ctx, id)
	assert.Equal(t, "Original", e.Nombre)

	assert.NoError(t, repo.UpdateOwned(ctx, id, "uid-org", cambios))
	e, _ = repo.GetByID(ctx, id)
	assert.Equal(t, "Editado", e.Nombre)
	assert.Equal(t, "Sevilla", e.Ubicacion)
	assert.Equal(t, "desc", e.Descripcion) // parcial: el resto no cambia

	assert.ErrorIs(t, repo.UpdateOwned(ctx, "no-existe", "uid-org", cambios), domain.ErrEventoNotFound)
}

func TestEventoSQLite_SoftDeleteYListados(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	repo := NewEventoRepoSQLite(db)
	ctx := context.Background()

	id1 := crearEvento(t, repo, "uid-org", "Uno")
	id2 := crearEvento(t, repo, "uid-org", "Dos")
	crearEvento(t, repo, "uid-otra", "Tres")

	assert.NoError(t, repo.AddAsistente(ctx, id1, "uid-a"))
	assert.NoError(t, repo.AddAsistente(ctx, id2, "uid-a"))

	assert.ErrorIs(t, repo.SoftDeleteOwned(ctx, id1, "uid-intruso"), domain.ErrNoEsOrganizador)
	assert.NoError(t, repo.SoftDeleteOwned(ctx, id1, "uid-org"))

	// Fuera de todos los listados
	activos, err := repo.ListActive(ctx)
	assert.NoError(t, err)
	assert.Len(t, activos, 2)

	creados, err := repo.ListCreados(ctx, "uid-org")
	assert.NoError(t, err)
	assert.Len(t, creados, 1)
	assert.Equal(t, "Dos", creados[0].Nombre)

	confirmados, err := repo.ListConfirmados(ctx, "uid-a")
	assert.NoError(t, err)
	assert.Len(t, confirmados, 1)
	assert.Equal(t, id2, confirmados[0].ID)

	// La fila sigue ahí, marcada inactiva
	e, err := repo.GetByID(ctx, id1)
	assert.NoError(t, err)
	assert.False(t, e.IsActive)
}
