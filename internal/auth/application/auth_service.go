package application

import (
	"context"
	"encoding/json"
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vivento/vivento/internal/auth/domain"
	sharedDomain "github.com/vivento/vivento/internal/shared/domain"
	sharedEvents "github.com/vivento/vivento/internal/shared/events"
	sharedBus "github.com/vivento/vivento/internal/shared/infra/platform/bus"
	sharedCache "github.com/vivento/vivento/internal/shared/infra/platform/cache"
	"github.com/vivento/vivento/pkg/token"
)

const minPasswordLen = 6

// TokenConfig configuración para la emisión de tokens de sesión.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// AuthService implementa el gateway de identidad: registro, login, login
// federado, logout, reset de contraseña y lectura de perfiles.
type AuthService struct {
	creds     domain.CredentialStore
	profiles  domain.ProfileRepository
	federated domain.FederatedVerifier
	cache     sharedCache.Cache
	events    sharedBus.EventPublisher
	tokens    TokenConfig
	log       *zap.Logger
}

// NewAuthService constructor
func NewAuthService(
	creds domain.CredentialStore,
	profiles domain.ProfileRepository,
	federated domain.FederatedVerifier,
	cache sharedCache.Cache,
	events sharedBus.EventPublisher,
	tokens TokenConfig,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		creds:     creds,
		profiles:  profiles,
		federated: federated,
		cache:     cache,
		events:    events,
		tokens:    tokens,
		log:       log,
	}
}

// Register crea la credencial y después el perfil users/{uid}. Las dos
// escrituras NO son transaccionales: si la segunda falla queda una credencial
// sin perfil, igual que en el proveedor gestionado original.
func (s *AuthService) Register(ctx context.Context, email, password, username string, userType domain.UserType) (*domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewAuthError(domain.CodeInvalidEmail)
	}
	if len(password) < minPasswordLen {
		return nil, domain.NewAuthError(domain.CodeWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	cred := &domain.Credencial{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.creds.Create(ctx, cred); err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailEnUso):
			return nil, domain.NewAuthError(domain.CodeEmailAlreadyInUse)
		case errors.Is(err, sharedDomain.ErrAlmacenNoDisponible):
			return nil, domain.NewAuthError(domain.CodeNetworkFailed)
		}
		return nil, err
	}

	user := &domain.User{
		UID:         cred.UID,
		Username:    username,
		Email:       email,
		UserType:    userType,
		DisplayName: username,
		IsActive:    true,
		IsVerified:  false,
	}
	if err := s.profiles.Create(ctx, user); err != nil {
		// Sin rollback compensatorio: la credencial ya existe.
		s.log.Error("perfil no creado tras registrar credencial",
			zap.String("uid", cred.UID), zap.Error(err))
		if errors.Is(err, sharedDomain.ErrAlmacenNoDisponible) {
			return nil, domain.NewAuthError(domain.CodeNetworkFailed)
		}
		return nil, err
	}

	s.publicar(ctx, domain.UsuarioRegistrado, user.UID, user)
	return user, nil
}

// Login intercambia email/contraseña por una sesión.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCredencialNotFound):
			return nil, domain.NewAuthError(domain.CodeUserNotFound)
		case errors.Is(err, sharedDomain.ErrAlmacenNoDisponible):
			return nil, domain.NewAuthError(domain.CodeNetworkFailed)
		}
		return nil, err
	}
	if cred.PasswordHash == "" {
		// Credencial federada, no tiene contraseña local.
		return nil, domain.NewAuthError(domain.CodeInvalidCredential)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, domain.NewAuthError(domain.CodeWrongPassword)
	}

	return s.emitirSesion(ctx, cred.UID, email)
}

// LoginWithFederatedToken intercambia un id_token de Google por una sesión.
// Si el uid no tiene perfil todavía, lo crea con userType 'usuario' y
// isVerified=true (el único camino donde isVerified arranca en true).
func (s *AuthService) LoginWithFederatedToken(ctx context.Context, idToken string) (*domain.Session, error) {
	identity, err := s.federated.Verify(ctx, idToken)
	if err != nil {
		return nil, domain.NewAuthError(domain.CodeInvalidCredential)
	}

	_, err = s.profiles.GetByUID(ctx, identity.UID)
	if errors.Is(err, domain.ErrUserNotFound) {
		username := identity.Nombre
		if username == "" {
			username = "Usuario"
		}
		user := &domain.User{
			UID:         identity.UID,
			Username:    username,
			Email:       identity.Email,
			UserType:    domain.UserTypeUsuario,
			DisplayName: identity.Nombre,
			PhotoURL:    identity.PhotoURL,
			IsActive:    true,
			IsVerified:  true,
		}
		if err := s.profiles.Create(ctx, user); err != nil {
			if errors.Is(err, sharedDomain.ErrAlmacenNoDisponible) {
				return nil, domain.NewAuthError(domain.CodeNetworkFailed)
			}
			return nil, err
		}
		s.publicar(ctx, domain.UsuarioRegistrado, user.UID, user)
	} else if err != nil {
		if errors.Is(err, sharedDomain.ErrAlmacenNoDisponible) {
			return nil, domain.NewAuthError(domain.CodeNetworkFailed)
		}
		return nil, err
	}

	return s.emitirSesion(ctx, identity.UID, identity.Email)
}

// Logout revoca la sesión añadiendo su jti al denylist hasta que el token
// expire por sí solo. Revocar una sesión ya revocada es un no-op.
func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.JTI == "" {
		return nil
	}
	// Sin cache no hay denylist: el token expira solo por TTL.
	if s.cache == nil {
		return nil
	}
	ttlSecs := int(s.tokens.TTL / time.Second)
	return s.cache.Set(ctx, domain.DenylistKey(sess.JTI), true, ttlSecs)
}

// ResetPassword dispara el flujo de recuperación fuera de banda: genera un
// token de un solo uso y lo publica para que el mailer lo recoja. Un email
// desconocido NO es un error visible para el que llama.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.NewAuthError(domain.CodeInvalidEmail)
	}

	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrCredencialNotFound) {
			return nil
		}
		if errors.Is(err, sharedDomain.ErrAlmacenNoDisponible) {
			return domain.NewAuthError(domain.CodeNetworkFailed)
		}
		return err
	}

	s.publicar(ctx, domain.PasswordResetSolicitado, cred.UID, map[string]string{
		"uid":        cred.UID,
		"email":      cred.Email,
		"resetToken": uuid.NewString(),
	})
	return nil
}

// GetUserData lee el perfil (primero intenta desde cache). Devuelve nil sin
// error si el perfil no existe.
func (s *AuthService) GetUserData(ctx context.Context, uid string) (*domain.User, error) {
	if s.cache != nil {
		var u domain.User
		if ok, _ := s.cache.Get(ctx, domain.CacheKeyByUID(uid), &u); ok {
			return &u, nil
		}
	}

	user, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if s.cache != nil {
		go func(u *domain.User) {
			ctxCache, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			_ = s.cache.Set(ctxCache, domain.CacheKeyByUID(u.UID), u, 60)
		}(user)
	}

	return user, nil
}

// SessionFromToken valida un token de sesión y lo convierte en Session.
// Lo usa el middleware HTTP; también comprueba el denylist de logout.
func (s *AuthService) SessionFromToken(ctx context.Context, tokenString string) (*domain.Session, error) {
	claims, err := token.Parse(s.tokens.Secret, tokenString)
	if err != nil {
		return nil, domain.ErrNoAutenticado
	}

	if s.cache != nil {
		var revoked bool
		if ok, _ := s.cache.Get(ctx, domain.DenylistKey(claims.ID), &revoked); ok && revoked {
			return nil, domain.ErrSesionRevocada
		}
	}

	return &domain.Session{
		UID:      claims.Subject,
		Nombre:   claims.Nombre,
		UserType: domain.UserType(claims.UserType),
		Token:    tokenString,
		JTI:      claims.ID,
	}, nil
}

func (s *AuthService) emitirSesion(ctx context.Context, uid, email string) (*domain.Session, error) {
	var nombre string
	var userType domain.UserType

	// El perfil enriquece las claims; su ausencia no bloquea el login.
	if profile, err := s.GetUserData(ctx, uid); err == nil && profile != nil {
		nombre = profile.Username
		userType = profile.UserType
		if email == "" {
			email = profile.Email
		}
	}

	signed, jti, err := token.Generate(s.tokens.Secret, uid, string(userType), nombre, s.tokens.Issuer, s.tokens.TTL)
	if err != nil {
		return nil, err
	}

	sess := &domain.Session{
		UID:      uid,
		Email:    email,
		Nombre:   nombre,
		UserType: userType,
		Token:    signed,
		JTI:      jti,
	}
	s.publicar(ctx, domain.SesionIniciada, uid, map[string]string{"uid": uid})
	return sess, nil
}

// publicar emite un evento de integración best-effort: un bus caído no debe
// tumbar la operación de negocio.
func (s *AuthService) publicar(ctx context.Context, tipo, key string, payload interface{}) {
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
