package http

import (
	"github.com/gin-gonic/gin"

	"github.com/vivento/vivento/internal/auth/application"
)

// RegisterAuthRoutes registra las rutas del gateway de identidad.
func RegisterAuthRoutes(r *gin.Engine, h *AuthHandler, service *application.AuthService) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/google", h.LoginGoogle)
		auth.POST("/reset-password", h.ResetPassword)
		auth.POST("/logout", RequireAuth(service), h.Logout)
	}

	r.GET("/users/:uid", RequireAuth(service), h.GetUserData)
}
