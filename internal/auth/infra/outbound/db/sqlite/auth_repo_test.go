package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	_ "modernc.org/sqlite"

	"github.com/vivento/vivento/internal/auth/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	assert.NoError(t, err)
	assert.NoError(t, InitSQLite(db))
	return db
}

func TestAuthSQLite_Credenciales(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	repo := NewAuthRepoSQLite(db)
	ctx := context.Background()

	cred := &domain.Credencial{UID: "uid-1", Email: "ana@example.com", PasswordHash: "$2a$10$hash"}
	assert.NoError(t, repo.Create(ctx, cred))

	// El email es único
	err := repo.Create(ctx, &domain.Credencial{UID: "uid-2", Email: "ana@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrEmailEnUso)

	got, err := repo.GetByEmail(ctx, "ana@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "uid-1", got.UID)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)

	_, err = repo.GetByEmail(ctx, "nadie@example.com")
	assert.ErrorIs(t, err, domain.ErrCredencialNotFound)
}

func TestAuthSQLite_Perfiles(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	repo := NewAuthRepoSQLite(db)
	profiles := repo.Profiles()
	ctx := context.Background()

	user := &domain.User{
		UID:         "uid-1",
		Username:    "ana_p",
		Email:       "ana@example.com",
		UserType:    domain.UserTypeOrganizador,
		DisplayName: "Ana",
		IsActive:    true,
		IsVerified:  false,
	}
	assert.NoError(t, profiles.Create(ctx, user))

	got, err := profiles.GetByUID(ctx, "uid-1")
	assert.NoError(t, err)
	assert.Equal(t, "ana_p", got.Username)
	assert.Equal(t, domain.UserTypeOrganizador, got.UserType)
	assert.True(t, got.IsActive)
	assert.False(t, got.IsVerified)
	assert.False(t, got.CreatedAt.IsZero()) // timestamp del motor

	_, err = profiles.GetByUID(ctx, "uid-fantasma")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
