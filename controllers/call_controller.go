package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cachapa/comanda-api/config"
	"github.com/cachapa/comanda-api/middleware"
	"github.com/cachapa/comanda-api/services"
)

// CallWaiter handles POST /api/v1/calls - summons the table's assigned
// waiter (clients only; repeat calls refresh, never queue)
func CallWaiter(c *gin.Context) {
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

	svc := services.NewCallService(config.GetStore())
	call, err := svc.CallWaiter(session)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    call,
	})
}

// AcknowledgeCall handles DELETE /api/v1/calls/:table - the targeted waiter
// (or the cashier) clears the table's call
func AcknowledgeCall(c *gin.Context) {
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

	svc := services.NewCallService(config.GetStore())
	if err := svc.AcknowledgeCall(c.Param("table"), session); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Call acknowledged",
	})
}

// ListCalls handles GET /api/v1/calls - the outstanding calls visible to
// the viewing session
func ListCalls(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    readModel.Calls(session),
	})
}
