package handler

import (
	"net/http"
	"strconv"

	"courtside/internal/service"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availability *service.AvailabilityService
}

func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Slots returns the ordered slot grid for a court on a date.
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	courtID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid court id"})
		return
	}
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter required"})
		return
	}
	slots, err := h.availability.SlotsForDate(c.Request.Context(), uint(courtID), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"court_id": courtID, "date": date, "slots": slots})
}
