package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	notificationapp "ctrc/internal/application/notification"
	"ctrc/internal/domain/notification"
	"ctrc/internal/shared/errors"
	"ctrc/internal/shared/logger"
	"ctrc/internal/shared/utils"
)

type NotificationHandler struct {
	service *notificationapp.Service
	logger  logger.Interface
}

func NewNotificationHandler(service *notificationapp.Service, logger logger.Interface) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger,
	}
}

type createNotificationRequest struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Create publishes an announcement to every portal user.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create notification", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Requisição inválida"))
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Create(c.Request.Context(), notificationapp.CreateCommand{
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Notificação criada com sucesso")
}

// List returns active announcements, newest first. Never fails the
// page.
func (h *NotificationHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list notifications", "error", err)
		items = []notification.Notification{}
	}

	utils.SuccessResponse(c, http.StatusOK, "", items)
}

// CountNew returns how many announcements appeared after the caller's
// last-seen watermark. Counting never fails the page.
func (h *NotificationHandler) CountNew(c *gin.Context) {
	lastSeen, err := strconv.ParseInt(c.Query("last_seen_id"), 10, 64)
	if err != nil {
		lastSeen = 0
	}

	count, err := h.service.CountNew(c.Request.Context(), lastSeen)
	if err != nil {
		h.logger.Errorw("failed to count new notifications", "error", err)
		count = 0
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"count": count})
}
