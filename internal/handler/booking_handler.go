package handler

import (
	"net/http"
	"strconv"

	"courtside/internal/domain"
	"courtside/internal/middleware"
	"courtside/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	CourtID       uint   `json:"court_id" binding:"required"`
	Date          string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" binding:"required,timeofday"`
	DurationHours int    `json:"duration_hours" binding:"required,min=1"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "InvalidRequest"})
		return
	}
	res, err := h.bookings.Create(c.Request.Context(), service.CreateBookingInput{
		UserID:        middleware.GetUserID(c),
		CourtID:       req.CourtID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"booking":          res.Booking,
		"payment":          res.Payment,
		"gateway_order_id": res.GatewayOrderID,
	})
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	b, err := h.bookings.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if b.UserID != middleware.GetUserID(c) && middleware.Role(c) != domain.RoleAdmin {
		respondError(c, domain.ErrNotOwner)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.bookings.ListForUser(c.Request.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

type cancelBookingRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// Cancel releases the slot and, for captured payments, kicks off a refund.
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "InvalidRequest"})
		return
	}

	b, err := h.bookings.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	actor := domain.ActorUser
	if middleware.Role(c) == domain.RoleAdmin {
		actor = domain.ActorAdmin
	} else if b.UserID != middleware.GetUserID(c) {
		respondError(c, domain.ErrNotOwner)
		return
	}

	cancelled, refund, err := h.bookings.Cancel(c.Request.Context(), uint(id), actor, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"booking": cancelled}
	if refund != nil {
		resp["refund"] = refund
	}
	c.JSON(http.StatusOK, resp)
}
