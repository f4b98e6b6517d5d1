package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userapp "ctrc/internal/application/user"
	"ctrc/internal/domain/user"
	"ctrc/internal/shared/errors"
	"ctrc/internal/shared/logger"
	"ctrc/internal/shared/utils"
)

type UserHandler struct {
	service *userapp.Service
	logger  logger.Interface
}

func NewUserHandler(service *userapp.Service, logger logger.Interface) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

type saveUserRequest struct {
	Login    string `json:"login" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
	Status   string `json:"status" validate:"omitempty,oneof=ativo inativo"`
	Action   string `json:"action" validate:"required,oneof=new edit"`
}

type updateProfileRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// List returns every user without password fields. Listing never
// fails the page: a broken store yields an empty directory.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list users", "error", err)
		users = []user.Public{}
	}

	utils.SuccessResponse(c, http.StatusOK, "", users)
}

// Find resolves a user by generated id or login. A miss returns null
// data rather than an error.
func (h *UserHandler) Find(c *gin.Context) {
	found, err := h.service.Find(c.Request.Context(), c.Param("ref"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", found)
}

// Save creates or edits a user depending on the action field.
func (h *UserHandler) Save(c *gin.Context) {
	var req saveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for save user", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Requisição inválida"))
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := userapp.SaveCommand{
		Login:    req.Login,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
		Action:   userapp.SaveAction(req.Action),
	}
	if err := h.service.Save(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if cmd.Action == userapp.ActionNew {
		utils.CreatedResponse(c, nil, "Usuário criado com sucesso")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Usuário atualizado com sucesso", nil)
}

// Delete removes a user row permanently.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("ref")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Usuário excluído com sucesso", nil)
}

// UpdateProfile handles a user's own name, email and optional password
// change.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update profile", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Requisição inválida"))
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := userapp.ProfileCommand{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}
	if err := h.service.UpdateProfile(c.Request.Context(), c.Param("ref"), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Perfil atualizado com sucesso", nil)
}
