package handler

import (
	"net/http"

	"courtside/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError maps a domain error to its HTTP status and a stable error
// code. Anything outside the taxonomy surfaces as a 500.
func respondError(c *gin.Context, err error) {
	de := domain.AsDomain(err)
	if de.Kind == domain.KindTransientStorage {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": de.Code})
		return
	}
	c.JSON(de.HTTPStatus(), gin.H{"error": de.Message, "code": de.Code})
}
