package http

import (
	"github.com/gin-gonic/gin"

	authApp "github.com/vivento/vivento/internal/auth/application"
	authHttp "github.com/vivento/vivento/internal/auth/infra/inbound/http"
)

// RegisterEventoRoutes registra las rutas del almacén de eventos.
// Las lecturas públicas llevan auth opcional; las mutaciones la exigen.
func RegisterEventoRoutes(r *gin.Engine, h *EventoHandler, authService *authApp.AuthService) {
	eventos := r.Group("/eventos")
	{
		eventos.GET("", authHttp.OptionalAuth(authService), h.ListEventos)
		eventos.GET("/:id", authHttp.OptionalAuth(authService), h.GetEvento)
		eventos.GET("/:id/asistencia", authHttp.OptionalAuth(authService), h.HaConfirmado)

		eventos.POST("", authHttp.RequireAuth(authService), h.CreateEvento)
		eventos.PUT("/:id", authHttp.RequireAuth(authService), h.UpdateEvento)
		eventos.DELETE("/:id", authHttp.RequireAuth(authService), h.DeleteEvento)
		eventos.POST("/:id/asistencia", authHttp.RequireAuth(authService), h.ConfirmarAsistencia)
		eventos.DELETE("/:id/asistencia", authHttp.RequireAuth(authService), h.CancelarAsistencia)
	}

	mis := r.Group("/mis-eventos", authHttp.RequireAuth(authService))
	{
		mis.GET("/creados", h.MisEventosCreados)
		mis.GET("/confirmados", h.MisEventosConfirmados)
	}

	r.GET("/analytics/asistencia", authHttp.RequireAuth(authService), h.TendenciaAsistencia)
}
