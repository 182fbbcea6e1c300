package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vivento/vivento/internal/auth/application"
	"github.com/vivento/vivento/internal/auth/domain"
	"github.com/vivento/vivento/pkg/utils"
)

const sessionKey = "session"

// RequireAuth exige un Bearer token válido y deja la Session en el contexto.
func RequireAuth(service *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFromHeader(c, service)
		if !ok {
			utils.SendUnauthorized(c, domain.ErrNoAutenticado.Error())
			c.Abort()
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// OptionalAuth deja la Session en el contexto si el token es válido, pero no
// corta la petición si falta o no valida.
func OptionalAuth(service *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, ok := sessionFromHeader(c, service); ok {
			c.Set(sessionKey, sess)
		}
		c.Next()
	}
}

// SessionFromContext recupera la sesión dejada por el middleware, o nil.
func SessionFromContext(c *gin.Context) *domain.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*domain.Session)
	return sess
}

func sessionFromHeader(c *gin.Context, service *application.AuthService) (*domain.Session, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	sess, err := service.SessionFromToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	return sess, true
}
