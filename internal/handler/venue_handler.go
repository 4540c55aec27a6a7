package handler

import (
	"net/http"
	"strconv"

	"courtside/internal/middleware"
	"courtside/internal/models"
	"courtside/internal/service"

	"github.com/gin-gonic/gin"
)

type VenueHandler struct {
	venues *service.VenueService
}

func NewVenueHandler(venues *service.VenueService) *VenueHandler {
	return &VenueHandler{venues: venues}
}

func (h *VenueHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.venues.List(c.Request.Context(), c.Query("city"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venues": list})
}

func (h *VenueHandler) Popular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	list, err := h.venues.Popular(c.Request.Context(), c.Query("rank_by"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venues": list})
}

func (h *VenueHandler) Courts(c *gin.Context) {
	facilityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid facility id"})
		return
	}
	courts, err := h.venues.Courts(c.Request.Context(), uint(facilityID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courts": courts})
}

// SetApproval handles both the approve and reject admin routes.
func (h *VenueHandler) SetApproval(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		facilityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid facility id"})
			return
		}
		f, err := h.venues.SetApproval(c.Request.Context(), uint(facilityID), approve)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"facility": f})
	}
}

type blockSlotRequest struct {
	CourtID   uint   `json:"court_id" binding:"required"`
	SlotDate  string `json:"slot_date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required,timeofday"`
	EndTime   string `json:"end_time" binding:"required,timeofday"`
	Reason    string `json:"reason" binding:"max=255"`
}

// BlockSlot takes a court interval out of circulation for maintenance or a
// private event. Only the facility owner may block.
func (h *VenueHandler) BlockSlot(c *gin.Context) {
	var req blockSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "InvalidRequest"})
		return
	}
	slot := &models.TimeSlot{
		CourtID:   req.CourtID,
		SlotDate:  req.SlotDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if err := h.venues.BlockSlot(c.Request.Context(), middleware.GetUserID(c), slot); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slot": slot})
}
