package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ctrc/internal/application/auth"
	"ctrc/internal/shared/errors"
	"ctrc/internal/shared/logger"
	"ctrc/internal/shared/utils"
)

type AuthHandler struct {
	service *auth.Service
	logger  logger.Interface
}

func NewAuthHandler(service *auth.Service, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	User            string `json:"user" validate:"required"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type recoverPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Login authenticates a login/password pair and returns the session
// profile the front end keeps for the rest of the visit.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for login", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Requisição inválida"))
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	profile, err := h.service.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", profile)
}

// ChangePassword validates the current password and writes the new
// one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for change password", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Requisição inválida"))
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), req.User, req.CurrentPassword, req.NewPassword); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Senha alterada com sucesso", nil)
}

// RecoverPassword issues a temporary password and emails it to the
// account's address.
func (h *AuthHandler) RecoverPassword(c *gin.Context) {
	var req recoverPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for recover password", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Requisição inválida"))
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.RecoverPassword(c.Request.Context(), req.Email); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Senha temporária enviada por email", nil)
}
