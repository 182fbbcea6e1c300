package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	"github.com/vivento/vivento/internal/auth/domain"
	sharedDomain "github.com/vivento/vivento/internal/shared/domain"
)

// AuthRepoSQLite implementa CredentialStore y ProfileRepository para
// despliegues locales.
type AuthRepoSQLite struct {
	db *sql.DB
}

func NewAuthRepoSQLite(db *sql.DB) *AuthRepoSQLite {
	return &AuthRepoSQLite{db: db}
}

// InitSQLite crea el esquema si no existe.
func InitSQLite(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS credentials (
		uid           TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS users (
		uid          TEXT PRIMARY KEY,
		username     TEXT NOT NULL,
		email        TEXT NOT NULL,
		user_type    TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		photo_url    TEXT NOT NULL DEFAULT '',
		is_active    INTEGER NOT NULL DEFAULT 1,
		is_verified  INTEGER NOT NULL DEFAULT 0,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// --- CredentialStore ---

func (r *AuthRepoSQLite) Create(ctx context.Context, c *domain.Credencial) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credentials (uid,email,password_hash) VALUES (?,?,?)`,
		c.UID, c.Email, c.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrEmailEnUso
		}
		return wrap(err)
	}
	return nil
}

func (r *AuthRepoSQLite) GetByEmail(ctx context.Context, email string) (*domain.Credencial, error) {
	var c domain.Credencial
	err := r.db.QueryRowContext(ctx,
		`SELECT uid,email,password_hash FROM credentials WHERE email=?`, email).
		Scan(&c.UID, &c.Email, &c.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCredencialNotFound
		}
		return nil, wrap(err)
	}
	return &c, nil
}

// --- ProfileRepository ---

func (r *AuthRepoSQLite) CreateProfile(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (uid,username,email,user_type,display_name,photo_url,is_active,is_verified)
		 VALUES (?,?,?,?,?,?,?,?)`,
		u.UID, u.Username, u.Email, string(u.UserType), u.DisplayName, u.PhotoURL,
		boolToInt(u.IsActive), boolToInt(u.IsVerified))
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (r *AuthRepoSQLite) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	var u domain.User
	var userType string
	var isActive, isVerified int
	var createdAt, updatedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT uid,username,email,user_type,display_name,photo_url,is_active,is_verified,created_at,updated_at
		 FROM users WHERE uid=?`, uid).
		Scan(&u.UID, &u.Username, &u.Email, &userType, &u.DisplayName, &u.PhotoURL,
			&isActive, &isVerified, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, wrap(err)
	}
	u.UserType = domain.UserType(userType)
	u.IsActive = isActive == 1
	u.IsVerified = isVerified == 1
	u.CreatedAt = createdAt
	u.UpdatedAt = updatedAt
	return &u, nil
}

// --- Helpers ---

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func wrap(err error) error {
	return fmt.Errorf("%w: %v", sharedDomain.ErrAlmacenNoDisponible, err)
}

// profileAdapter expone la tabla users como ProfileRepository.
type profileAdapter struct {
	repo *AuthRepoSQLite
}

func (a profileAdapter) Create(ctx context.Context, u *domain.User) error {
	return a.repo.CreateProfile(ctx, u)
}

func (a profileAdapter) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	return a.repo.GetByUID(ctx, uid)
}

// Profiles devuelve la vista ProfileRepository del repositorio.
func (r *AuthRepoSQLite) Profiles() domain.ProfileRepository {
	return profileAdapter{repo: r}
}

// Verificación estática de las interfaces.
var (
	_ domain.CredentialStore   = (*AuthRepoSQLite)(nil)
	_ domain.ProfileRepository = profileAdapter{}
)
