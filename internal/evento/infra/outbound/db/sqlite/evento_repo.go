package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	"github.com/vivento/vivento/internal/evento/domain"
	sharedDomain "github.com/vivento/vivento/internal/shared/domain"
)

// EventoRepoSQLite implementa EventoRepository para despliegues locales.
// El conjunto de asistentes se modela como relación con clave primaria
// (evento_id, uid): el INSERT OR IGNORE / DELETE dan la semántica de
// set-union/set-remove sin sobreescribir el conjunto completo.
type EventoRepoSQLite struct {
	db *sql.DB
}

func NewEventoRepoSQLite(db *sql.DB) *EventoRepoSQLite {
	return &EventoRepoSQLite{db: db}
}

// InitSQLite crea el esquema si no existe.
func InitSQLite(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS eventos (
		id                 TEXT PRIMARY KEY,
		nombre             TEXT NOT NULL,
		descripcion        TEXT NOT NULL,
		ubicacion          TEXT NOT NULL,
		fecha              TEXT NOT NULL,
		hora               TEXT NOT NULL,
		organizador_id     TEXT NOT NULL,
		organizador_nombre TEXT NOT NULL,
		is_active          INTEGER NOT NULL DEFAULT 1,
		created_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS asistentes (
		evento_id TEXT NOT NULL,
		uid       TEXT NOT NULL,
		PRIMARY KEY (evento_id, uid)
	);
	CREATE INDEX IF NOT EXISTS idx_eventos_organizador ON eventos(organizador_id);
	CREATE INDEX IF NOT EXISTS idx_asistentes_uid ON asistentes(uid);
	`
	_, err := db.Exec(schema)
	return err
}

// ------------------ Escritura ------------------

// Create inserta el evento; los timestamps los pone el propio motor
// (CURRENT_TIMESTAMP), no el reloj del proceso llamante.
func (r *EventoRepoSQLite) Create(ctx context.Context, e *domain.Evento) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO eventos (id,nombre,descripcion,ubicacion,fecha,hora,organizador_id,organizador_nombre,is_active)
		 VALUES (?,?,?,?,?,?,?,?,1)`,
		id, e.Nombre, e.Descripcion, e.Ubicacion, e.Fecha, e.Hora, e.OrganizadorID, e.OrganizadorNombre,
	)
	if err != nil {
		return "", wrap(err)
	}
	return id, nil
}

func (r *EventoRepoSQLite) AddAsistente(ctx context.Context, eventoID, uid string) error {
	if err := r.existe(ctx, eventoID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO asistentes (evento_id, uid) VALUES (?,?)`, eventoID, uid)
	if err != nil {
		return wrap(err)
	}
	return r.touch(ctx, eventoID)
}

func (r *EventoRepoSQLite) RemoveAsistente(ctx context.Context, eventoID, uid string) error {
	if err := r.existe(ctx, eventoID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM asistentes WHERE evento_id=? AND uid=?`, eventoID, uid)
	if err != nil {
		return wrap(err)
	}
	return r.touch(ctx, eventoID)
}

// UpdateOwned condiciona la escritura al dueño en el propio WHERE.
func (r *EventoRepoSQLite) UpdateOwned(ctx context.Context, eventoID, ownerUID string, cambios domain.Cambios) error {
	set := "updated_at=CURRENT_TIMESTAMP"
	args := []interface{}{}
	for campo, valor := range cambios.Campos() {
		set += fmt.Sprintf(", %s=?", campo)
		args = append(args, valor)
	}
	args = append(args, eventoID, ownerUID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE eventos SET `+set+` WHERE id=? AND organizador_id=?`, args...)
	if err != nil {
		return wrap(err)
	}
	return r.checkOwnedResult(ctx, eventoID, res)
}

func (r *EventoRepoSQLite) SoftDeleteOwned(ctx context.Context, eventoID, ownerUID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE eventos SET is_active=0, updated_at=CURRENT_TIMESTAMP WHERE id=? AND organizador_id=?`,
		eventoID, ownerUID)
	if err != nil {
		return wrap(err)
	}
	return r.checkOwnedResult(ctx, eventoID, res)
}

func (r *EventoRepoSQLite) checkOwnedResult(ctx context.Context, eventoID string, res sql.Result) error {
	rows, _ := res.RowsAffected()
	if rows > 0 {
		return nil
	}
	// Sin filas afectadas: distinguir "no existe" de "no es el dueño".
	if err := r.existe(ctx, eventoID); err != nil {
		return err
	}
	return domain.ErrNoEsOrganizador
}

// ------------------ Lectura ------------------

func (r *EventoRepoSQLite) GetByID(ctx context.Context, id string) (*domain.Evento, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id,nombre,descripcion,ubicacion,fecha,hora,organizador_id,organizador_nombre,is_active,created_at,updated_at
		 FROM eventos WHERE id=?`, id)

	e, err := scanEvento(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventoNotFound
		}
		return nil, wrap(err)
	}

	if err := r.cargarAsistentes(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EventoRepoSQLite) ListActive(ctx context.Context) ([]*domain.Evento, error) {
	return r.list(ctx,
		`SELECT id,nombre,descripcion,ubicacion,fecha,hora,organizador_id,organizador_nombre,is_active,created_at,updated_at
		 FROM eventos WHERE is_active=1 ORDER BY created_at DESC`)
}

func (r *EventoRepoSQLite) ListConfirmados(ctx context.Context, uid string) ([]*domain.Evento, error) {
	return r.list(ctx,
		`SELECT e.id,e.nombre,e.descripcion,e.ubicacion,e.fecha,e.hora,e.organizador_id,e.organizador_nombre,e.is_active,e.created_at,e.updated_at
		 FROM eventos e
		 JOIN asistentes a ON a.evento_id = e.id AND a.uid = ?
		 WHERE e.is_active=1 ORDER BY e.created_at DESC`, uid)
}

func (r *EventoRepoSQLite) ListCreados(ctx context.Context, uid string) ([]*domain.Evento, error) {
	return r.list(ctx,
		`SELECT id,nombre,descripcion,ubicacion,fecha,hora,organizador_id,organizador_nombre,is_active,created_at,updated_at
		 FROM eventos WHERE organizador_id=? AND is_active=1 ORDER BY created_at DESC`, uid)
}

func (r *EventoRepoSQLite) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Evento, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var eventos []*domain.Evento
	for rows.Next() {
		e, err := scanEvento(rows)
		if err != nil {
			return nil, wrap(err)
		}
		eventos = append(eventos, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err)
	}

	for _, e := range eventos {
		if err := r.cargarAsistentes(ctx, e); err != nil {
			return nil, err
		}
	}
	return eventos, nil
}

// ------------------ Helpers ------------------

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEvento(row scanner) (*domain.Evento, error) {
	var e domain.Evento
	var isActive int
	var createdAt, updatedAt time.Time
	err := row.Scan(&e.ID, &e.Nombre, &e.Descripcion, &e.Ubicacion, &e.Fecha, &e.Hora,
		&e.OrganizadorID, &e.OrganizadorNombre, &isActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	e.IsActive = isActive == 1
	e.CreatedAt = createdAt
	e.UpdatedAt = updatedAt
	e.Asistentes = []string{}
	return &e, nil
}

func (r *EventoRepoSQLite) cargarAsistentes(ctx context.Context, e *domain.Evento) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT uid FROM asistentes WHERE evento_id=? ORDER BY uid`, e.ID)
	if err != nil {
		return wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return wrap(err)
		}
		e.Asistentes = append(e.Asistentes, uid)
	}
	return rows.Err()
}

func (r *EventoRepoSQLite) existe(ctx context.Context, eventoID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM eventos WHERE id=?`, eventoID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrEventoNotFound
	}
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (r *EventoRepoSQLite) touch(ctx context.Context, eventoID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE eventos SET updated_at=CURRENT_TIMESTAMP WHERE id=?`, eventoID)
	if err != nil {
		return wrap(err)
	}
	return nil
}

func wrap(err error) error {
	return fmt.Errorf("%w: %v", sharedDomain.ErrAlmacenNoDisponible, err)
}

// Verificación estática de la interfaz.
var _ domain.EventoRepository = (*EventoRepoSQLite)(nil)
