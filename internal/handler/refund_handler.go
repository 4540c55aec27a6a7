package handler

import (
	"net/http"
	"strconv"

	"courtside/internal/domain"
	"courtside/internal/middleware"
	"courtside/internal/repository"
	"courtside/internal/service"

	"github.com/gin-gonic/gin"
)

type RefundHandler struct {
	refunds  *service.RefundService
	payments *repository.PaymentRepository
	bookings *service.BookingService
}

func NewRefundHandler(refunds *service.RefundService, payments *repository.PaymentRepository, bookings *service.BookingService) *RefundHandler {
	return &RefundHandler{refunds: refunds, payments: payments, bookings: bookings}
}

// authorize loads the payment and checks the caller may act on it: the
// booking's user or an admin.
func (h *RefundHandler) authorize(c *gin.Context) (uint, bool) {
	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return 0, false
	}
	if middleware.Role(c) == domain.RoleAdmin {
		return uint(paymentID), true
	}
	p, err := h.payments.GetByID(c.Request.Context(), uint(paymentID))
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	b, err := h.bookings.Get(c.Request.Context(), p.BookingID)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	if b.UserID != middleware.GetUserID(c) {
		respondError(c, domain.ErrNotOwner)
		return 0, false
	}
	return uint(paymentID), true
}

func (h *RefundHandler) List(c *gin.Context) {
	paymentID, ok := h.authorize(c)
	if !ok {
		return
	}
	listing, err := h.refunds.ListForPayment(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

type createRefundRequest struct {
	AmountPaise int64  `json:"amount_paise" binding:"min=0"`
	Reason      string `json:"reason" binding:"required,max=255"`
}

// Create initiates a refund. amount_paise zero refunds the full remaining
// balance.
func (h *RefundHandler) Create(c *gin.Context) {
	paymentID, ok := h.authorize(c)
	if !ok {
		return
	}
	var req createRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "InvalidRequest"})
		return
	}
	actor := domain.ActorUser
	if middleware.Role(c) == domain.RoleAdmin {
		actor = domain.ActorAdmin
	}
	refund, err := h.refunds.Initiate(c.Request.Context(), paymentID, req.AmountPaise, actor, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"refund": refund})
}
