package mocks

import (
	"context"
	"sync"
	"time"

	authDomain "github.com/vivento/vivento/internal/auth/domain"
)

// InMemoryCredentialStore simula CredentialStore con unicidad de email.
type InMemoryCredentialStore struct {
	Creds map[string]*authDomain.Credencial // por email
	mu    sync.Mutex

	Fallar error
}

func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{Creds: make(map[string]*authDomain.Credencial)}
}

func (s *InMemoryCredentialStore) Create(ctx context.Context, c *authDomain.Credencial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fallar != nil {
		return s.Fallar
	}
	if _, ok := s.Creds[c.Email]; ok {
		return authDomain.ErrEmailEnUso
	}
	copia := *c
	s.Creds[c.Email] = &copia
	return nil
}

func (s *InMemoryCredentialStore) GetByEmail(ctx context.Context, email string) (*authDomain.Credencial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fallar != nil {
		return nil, s.Fallar
	}
	c, ok := s.Creds[email]
	if !ok {
		return nil, authDomain.ErrCredencialNotFound
	}
	copia := *c
	return &copia, nil
}

// InMemoryProfileRepo simula ProfileRepository con timestamps asignados al
// escribir, como hace el almacén real.
type InMemoryProfileRepo struct {
	Users map[string]*authDomain.User
	mu    sync.Mutex

	Fallar error
}

func NewInMemoryProfileRepo() *InMemoryProfileRepo {
	return &InMemoryProfileRepo{Users: make(map[string]*authDomain.User)}
}

func (r *InMemoryProfileRepo) Create(ctx context.Context, u *authDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fallar != nil {
		return r.Fallar
	}
	copia := *u
	copia.CreatedAt = time.Now().UTC()
	copia.UpdatedAt = copia.CreatedAt
	r.Users[u.UID] = &copia
	return nil
}

func (r *InMemoryProfileRepo) GetByUID(ctx context.Context, uid string) (*authDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fallar != nil {
		return nil, r.Fallar
	}
	u, ok := r.Users[uid]
	if !ok {
		return nil, authDomain.ErrUserNotFound
	}
	copia := *u
	return &copia, nil
}

// FakeFederatedVerifier devuelve una identidad fijada por el test.
type FakeFederatedVerifier struct {
	Identity *authDomain.FederatedIdentity
	Err      error
}

func (v *FakeFederatedVerifier) Verify(ctx context.Context, idToken string) (*authDomain.FederatedIdentity, error) {
	if v.Err != nil {
		return nil, v.Err
	}
	return v.Identity, nil
}

// Verificación estática de las interfaces.
var (
	_ authDomain.CredentialStore   = (*InMemoryCredentialStore)(nil)
	_ authDomain.ProfileRepository = (*InMemoryProfileRepo)(nil)
	_ authDomain.FederatedVerifier = (*FakeFederatedVerifier)(nil)
)
