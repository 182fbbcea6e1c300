package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vivento/vivento/internal/auth/application"
	"github.com/vivento/vivento/internal/auth/domain"
	sharedDomain "github.com/vivento/vivento/internal/shared/domain"
	"github.com/vivento/vivento/pkg/utils"
)

// AuthHandler encapsula los endpoints HTTP del gateway de identidad.
type AuthHandler struct {
	service *application.AuthService
}

// NewAuthHandler crea un nuevo AuthHandler
func NewAuthHandler(service *application.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// ---------------- Handlers ----------------

// Register endpoint POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Username string `json:"username" binding:"required"`
		UserType string `json:"userType" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Email, req.Password, req.Username, domain.UserType(req.UserType))
	if err != nil {
		h.sendAuthError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, user)
}

// Login endpoint POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	sess, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.sendAuthError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, sess)
}

// LoginGoogle endpoint POST /auth/google
func (h *AuthHandler) LoginGoogle(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	sess, err := h.service.LoginWithFederatedToken(c.Request.Context(), req.IDToken)
	if err != nil {
		h.sendAuthError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, sess)
}

// Logout endpoint POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := SessionFromContext(c)
	if err := h.service.Logout(c.Request.Context(), sess); err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetPassword endpoint POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Email); err != nil {
		h.sendAuthError(c, err)
		return
	}

	c.Status(http.StatusAccepted)
}

// GetUserData endpoint GET /users/:uid
func (h *AuthHandler) GetUserData(c *gin.Context) {
	user, err := h.service.GetUserData(c.Request.Context(), c.Param("uid"))
	if err != nil {
		if errors.Is(err, sharedDomain.ErrAlmacenNoDisponible) {
			utils.SendError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}
	if user == nil {
		utils.SendNotFound(c, domain.ErrUserNotFound.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, user)
}

// sendAuthError traduce un error del servicio al código HTTP que toca,
// exponiendo el mensaje de usuario de la tabla de mapeo.
func (h *AuthHandler) sendAuthError(c *gin.Context, err error) {
	if ae, ok := domain.AsAuthError(err); ok {
		switch ae.Code {
		case domain.CodeEmailAlreadyInUse:
			utils.SendError(c, http.StatusConflict, ae.Message)
		case domain.CodeWeakPassword, domain.CodeInvalidEmail:
			utils.SendBadRequest(c, ae.Message)
		case domain.CodeNetworkFailed:
			utils.SendError(c, http.StatusServiceUnavailable, ae.Message)
		default:
			utils.SendUnauthorized(c, ae.Message)
		}
		return
	}
	utils.SendInternalServerError(c, err.Error())
}
