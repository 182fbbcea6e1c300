package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authHttp "github.com/vivento/vivento/internal/auth/infra/inbound/http"
	"github.com/vivento/vivento/internal/evento/application"
	"github.com/vivento/vivento/internal/evento/domain"
	sharedDomain "github.com/vivento/vivento/internal/shared/domain"
	"github.com/vivento/vivento/pkg/utils"
)

// EventoHandler encapsula los endpoints HTTP del almacén de eventos.
type EventoHandler struct {
	service *application.EventoService
}

// NewEventoHandler crea un nuevo EventoHandler
func NewEventoHandler(service *application.EventoService) *EventoHandler {
	return &EventoHandler{service: service}
}

// callerUID devuelve el uid de la sesión del contexto, o "" si no hay.
func callerUID(c *gin.Context) string {
	if sess := authHttp.SessionFromContext(c); sess != nil {
		return sess.UID
	}
	return ""
}

// ---------------- Handlers ----------------

// CreateEvento endpoint POST /eventos
func (h *EventoHandler) CreateEvento(c *gin.Context) {
	var req struct {
		Nombre      string `json:"nombre" binding:"required"`
		Descripcion string `json:"descripcion" binding:"required"`
		Ubicacion   string `json:"ubicacion" binding:"required"`
		Fecha       string `json:"fecha" binding:"required"`
		Hora        string `json:"hora" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	id, err := h.service.CreateEvent(c.Request.Context(), callerUID(c),
		req.Nombre, req.Descripcion, req.Ubicacion, req.Fecha, req.Hora)
	if err != nil {
		h.sendError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, gin.H{"id": id})
}

// ListEventos endpoint GET /eventos
func (h *EventoHandler) ListEventos(c *gin.Context) {
	eventos, err := h.service.GetAllEvents(c.Request.Context())
	if err != nil {
		h.sendError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, eventos)
}

// GetEvento endpoint GET /eventos/:id
func (h *EventoHandler) GetEvento(c *gin.Context) {
	evento, err := h.service.GetEventByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sendError(c, err)
		return
	}
	if evento == nil {
		utils.SendNotFound(c, domain.ErrEventoNotFound.Error())
		return
	}
	utils.SendSuccess(c, http.StatusOK, evento)
}

// UpdateEvento endpoint PUT /eventos/:id
func (h *EventoHandler) UpdateEvento(c *gin.Context) {
	var req struct {
		Nombre      *string `json:"nombre,omitempty"`
		Descripcion *string `json:"descripcion,omitempty"`
		Ubicacion   *string `json:"ubicacion,omitempty"`
		Fecha       *string `json:"fecha,omitempty"`
		Hora        *string `json:"hora,omitempty"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	cambios := domain.Cambios{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Ubicacion:   req.Ubicacion,
		Fecha:       req.Fecha,
		Hora:        req.Hora,
	}

	if err := h.service.UpdateEvent(c.Request.Context(), callerUID(c), c.Param("id"), cambios); err != nil {
		h.sendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteEvento endpoint DELETE /eventos/:id (borrado lógico)
func (h *EventoHandler) DeleteEvento(c *gin.Context) {
	if err := h.service.DeleteEvent(c.Request.Context(), callerUID(c), c.Param("id")); err != nil {
		h.sendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmarAsistencia endpoint POST /eventos/:id/asistencia
func (h *EventoHandler) ConfirmarAsistencia(c *gin.Context) {
	if err := h.service.ConfirmAttendance(c.Request.Context(), callerUID(c), c.Param("id")); err != nil {
		h.sendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CancelarAsistencia endpoint DELETE /eventos/:id/asistencia
func (h *EventoHandler) CancelarAsistencia(c *gin.Context) {
	if err := h.service.CancelAttendance(c.Request.Context(), callerUID(c), c.Param("id")); err != nil {
		h.sendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HaConfirmado endpoint GET /eventos/:id/asistencia
// Nunca devuelve error: sin sesión o sin evento responde confirmed=false.
func (h *EventoHandler) HaConfirmado(c *gin.Context) {
	confirmed := h.service.HasUserConfirmed(c.Request.Context(), callerUID(c), c.Param("id"))
	utils.SendSuccess(c, http.StatusOK, gin.H{"confirmed": confirmed})
}

// MisEventosCreados endpoint GET /mis-eventos/creados
func (h *EventoHandler) MisEventosCreados(c *gin.Context) {
	eventos, err := h.service.GetUserCreatedEvents(c.Request.Context(), callerUID(c))
	if err != nil {
		h.sendError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, eventos)
}

// MisEventosConfirmados endpoint GET /mis-eventos/confirmados
func (h *EventoHandler) MisEventosConfirmados(c *gin.Context) {
	eventos, err := h.service.GetUserConfirmedEvents(c.Request.Context(), callerUID(c))
	if err != nil {
		h.sendError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, eventos)
}

// TendenciaAsistencia endpoint GET /analytics/asistencia?start=...&end=...
func (h *EventoHandler) TendenciaAsistencia(c *gin.Context) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			utils.SendBadRequest(c, "formato de start inválido, usa YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if e := c.Query("end"); e != "" {
		parsed, err := time.Parse("2006-01-02", e)
		if err != nil {
			utils.SendBadRequest(c, "formato de end inválido, usa YYYY-MM-DD")
			return
		}
		end = parsed
	}

	trend, err := h.service.GetAttendanceTrend(c.Request.Context(), start, end)
	if err != nil {
		h.sendError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, trend)
}

// sendError traduce los errores de dominio a códigos HTTP.
func (h *EventoHandler) sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoAutenticado):
		utils.SendUnauthorized(c, err.Error())
	case errors.Is(err, domain.ErrNoEsOrganizador):
		utils.SendForbidden(c, err.Error())
	case errors.Is(err, domain.ErrEventoNotFound):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, domain.ErrCamposVacios):
		utils.SendBadRequest(c, err.Error())
	case errors.Is(err, sharedDomain.ErrAlmacenNoDisponible):
		utils.SendError(c, http.StatusServiceUnavailable, err.Error())
	default:
		utils.SendInternalServerError(c, err.Error())
	}
}
