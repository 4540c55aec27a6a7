package handler

import (
	"net/http"

	"courtside/internal/middleware"
	"courtside/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	users *repository.UserRepository
}

func NewMeHandler(users *repository.UserRepository) *MeHandler {
	return &MeHandler{users: users}
}

func (h *MeHandler) Profile(c *gin.Context) {
	u, err := h.users.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
