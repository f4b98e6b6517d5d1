package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portalapp "ctrc/internal/application/portal"
	"ctrc/internal/domain/portal"
	"ctrc/internal/shared/logger"
	"ctrc/internal/shared/utils"
)

type PortalHandler struct {
	service *portalapp.Service
	logger  logger.Interface
}

func NewPortalHandler(service *portalapp.Service, logger logger.Interface) *PortalHandler {
	return &PortalHandler{
		service: service,
		logger:  logger,
	}
}

// Data returns the formatted delivery grid, optionally filtered by the
// search query. The dashboard always renders: a broken store yields an
// empty grid.
func (h *PortalHandler) Data(c *gin.Context) {
	rows, err := h.service.Data(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.logger.Errorw("failed to load portal data", "error", err)
		rows = [][]string{}
	}

	utils.SuccessResponse(c, http.StatusOK, "", rows)
}

// Metrics returns the consolidated delivery metrics. Any failure
// degrades to the well-formed zero shape so dashboard widgets render
// zeros instead of breaking.
func (h *PortalHandler) Metrics(c *gin.Context) {
	metrics, err := h.service.Metrics(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to compute portal metrics", "error", err)
		metrics = portal.EmptyMetrics()
	}

	utils.SuccessResponse(c, http.StatusOK, "", metrics)
}
