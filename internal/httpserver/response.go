package httpserver

import (
	"errors"
	"net/http"

	"staybook/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps domain errors to HTTP statuses. Anything outside the
// taxonomy is an internal failure: logged, and returned opaque.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoCapacity):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
