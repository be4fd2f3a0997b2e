package handlers

import (
	"errors"
	"net/http"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps domain sentinels onto HTTP status codes. Anything
// unrecognized is a 500 with the detail kept out of the response body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, domain.ErrUnknownProvider):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown payment provider"})
	case errors.Is(err, domain.ErrOrderHasNoItems),
		errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCancelOrder),
		errors.Is(err, domain.ErrNotRefundable),
		errors.Is(err, domain.ErrOrderExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProviderRejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
