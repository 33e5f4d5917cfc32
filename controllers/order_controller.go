package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cachapa/comanda-api/config"
	"github.com/cachapa/comanda-api/middleware"
	"github.com/cachapa/comanda-api/models"
	"github.com/cachapa/comanda-api/services"
)

var readModel *services.ReadModel

// SetReadModel installs the subscription-driven view the list endpoints
// serve from. Called once at startup (and from tests).
func SetReadModel(m *services.ReadModel) {
	readModel = m
}

// PlaceOrderRequest represents the request body for placing an order
type PlaceOrderRequest struct {
	Items []models.CartItem `json:"items" binding:"required"`
}

// PlaceOrder handles POST /api/v1/orders - submits a cart as a new order (clients only)
func PlaceOrder(c *gin.Context) {
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

	var req PlaceOrderRequest
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

	svc := services.NewOrderService(config.GetStore())
	order, err := svc.PlaceOrder(req.Items, session)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - the session's current order view,
// pending queue first (oldest-first), the rest newest-first. A table-scoped
// session of any role sees only its table; unscoped waiters and the cashier
// see everything.
func ListOrders(c *gin.Context) {
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

	var orders []models.Order
	if session.TableScoped() {
		orders = readModel.OrdersForTable(session.TableNumber)
	} else {
		orders = readModel.Orders()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// ApproveOrder handles POST /api/v1/orders/:id/approve - Pending → Approved
// (the order's assigned waiter only)
func ApproveOrder(c *gin.Context) {
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

	svc := services.NewOrderService(config.GetStore())
	if err := svc.ApproveOrder(c.Param("id"), session); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order approved",
	})
}

// MarkDelivered handles POST /api/v1/orders/:id/deliver - Approved → Delivered
// (the order's assigned waiter only)
func MarkDelivered(c *gin.Context) {
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

	svc := services.NewOrderService(config.GetStore())
	if err := svc.MarkDelivered(c.Param("id"), session); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order delivered",
	})
}
