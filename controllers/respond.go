package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cachapa/comanda-api/services"
)

// respondServiceError maps an engine failure onto the API envelope.
// Validation and authorization failures never touched the store; conflicts
// and unavailability are retryable by re-invocation.
func respondServiceError(c *gin.Context, err error) {
	var (
		ve *services.ValidationError
		ae *services.AuthorizationError
		ne *services.NotFoundError
		me *services.MenuLoadError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": ve.Error(),
			},
		})
	case errors.As(err, &ae):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": ae.Error(),
			},
		})
	case errors.As(err, &ne):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": ne.Error(),
			},
		})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "State changed concurrently, please reload and retry",
			},
		})
	case errors.As(err, &me):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MENU_UNAVAILABLE",
				"message": "Menu could not be loaded, please retry",
			},
		})
	case services.IsUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_UNAVAILABLE",
				"message": "State store is unavailable, please retry",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Unexpected error",
			},
		})
	}
}
