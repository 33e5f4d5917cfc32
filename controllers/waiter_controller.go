package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cachapa/comanda-api/config"
	"github.com/cachapa/comanda-api/middleware"
	"github.com/cachapa/comanda-api/services"
)

// AddWaiterRequest represents the request body for adding a waiter
type AddWaiterRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListWaiters handles GET /api/v1/waiters - the current roster
func ListWaiters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    readModel.Waiters(),
	})
}

// AddWaiter handles POST /api/v1/waiters - adds an identity to the roster
// (cashier only)
func AddWaiter(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract session information",
			},
		})
		return
	}

	var req AddWaiterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	svc := services.NewTableService(config.GetStore())
	if err := svc.AddWaiter(req.Name, session); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Waiter added",
	})
}

// DeleteWaiter handles DELETE /api/v1/waiters/:name - removes an identity
// from the roster and unassigns their tables (cashier only)
func DeleteWaiter(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract session information",
			},
		})
		return
	}

	svc := services.NewTableService(config.GetStore())
	if err := svc.DeleteWaiter(c.Param("name"), session); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Waiter removed",
	})
}
