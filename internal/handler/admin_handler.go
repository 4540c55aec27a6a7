package handler

import (
	"net/http"
	"strconv"

	"courtside/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the operator surfaces: the manual-reconciliation
// queue of flagged webhook events.
type AdminHandler struct {
	events *repository.WebhookEventRepository
}

func NewAdminHandler(events *repository.WebhookEventRepository) *AdminHandler {
	return &AdminHandler{events: events}
}

func (h *AdminHandler) FlaggedEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := h.events.ListFlagged(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": list})
}
