package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ticketapp "ctrc/internal/application/ticket"
	"ctrc/internal/domain/ticket"
	"ctrc/internal/shared/errors"
	"ctrc/internal/shared/logger"
	"ctrc/internal/shared/utils"
)

type TicketHandler struct {
	service *ticketapp.Service
	logger  logger.Interface
}

func NewTicketHandler(service *ticketapp.Service, logger logger.Interface) *TicketHandler {
	return &TicketHandler{
		service: service,
		logger:  logger,
	}
}

type createTicketRequest struct {
	User        string `json:"user" validate:"required"`
	Kind        string `json:"kind" validate:"omitempty,oneof=ocorrencia sugestao"`
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority" validate:"omitempty,oneof=baixa media alta"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=aberto andamento resolvido fechado"`
}

type addCommentRequest struct {
	User string `json:"user" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// Create opens a new ticket and returns its id and display code.
func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Requisição inválida"))
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.Create(c.Request.Context(), ticketapp.CreateCommand{
		Owner:       req.User,
		Kind:        req.Kind,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Ticket criado com sucesso")
}

// List returns the caller's visible tickets: all of them for an admin,
// own tickets otherwise. Listing never fails the page.
func (h *TicketHandler) List(c *gin.Context) {
	callerRef := c.Query("user")
	isAdmin := parseAdminFlag(c.Query("admin"))

	tickets, err := h.service.List(c.Request.Context(), callerRef, isAdmin)
	if err != nil {
		h.logger.Errorw("failed to list tickets", "error", err, "user", callerRef)
		tickets = []ticket.Ticket{}
	}

	utils.SuccessResponse(c, http.StatusOK, "", tickets)
}

// SetStatus rewrites a ticket's status.
func (h *TicketHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for set ticket status", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Requisição inválida"))
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Status atualizado com sucesso", nil)
}

// AddComment appends a comment to a ticket.
func (h *TicketHandler) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for add comment", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Requisição inválida"))
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), c.Param("id"), req.User, req.Text)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, comment, "Comentário adicionado com sucesso")
}

// ListComments returns a ticket's comments oldest first. Never fails
// the page.
func (h *TicketHandler) ListComments(c *gin.Context) {
	comments, err := h.service.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Errorw("failed to list comments", "error", err, "ticket_id", c.Param("id"))
		comments = []ticket.Comment{}
	}

	utils.SuccessResponse(c, http.StatusOK, "", comments)
}

// CountPending returns the badge counter for the caller. Counting
// never fails the page: any error reads as zero.
func (h *TicketHandler) CountPending(c *gin.Context) {
	callerRef := c.Query("user")
	isAdmin := parseAdminFlag(c.Query("admin"))

	count, err := h.service.CountPending(c.Request.Context(), callerRef, isAdmin)
	if err != nil {
		h.logger.Errorw("failed to count pending tickets", "error", err, "user", callerRef)
		count = 0
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"count": count})
}

// parseAdminFlag is kept for query values like "1"/"true" sent by
// older front-end builds.
func parseAdminFlag(raw string) bool {
	if raw == "true" {
		return true
	}
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}
