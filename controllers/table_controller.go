package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cachapa/comanda-api/config"
	"github.com/cachapa/comanda-api/middleware"
	"github.com/cachapa/comanda-api/services"
	"github.com/cachapa/comanda-api/utils"
)

// RequestBillRequest represents the request body for requesting a bill
type RequestBillRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// ReassignTableRequest represents the request body for reassigning a table
type ReassignTableRequest struct {
	WaiterID string `json:"waiterId" binding:"required"`
}

// RequestBill handles POST /api/v1/tables/:table/bill - transitions every
// approved or delivered order of the table to BillRequested in one batch
func RequestBill(c *gin.Context) {
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

	var req RequestBillRequest
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
	if err := svc.RequestBill(c.Param("table"), req.PaymentMethod, session); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bill requested",
	})
}

// MarkTableAsPaid handles POST /api/v1/tables/:table/paid - closes out every
// non-pending order of the table (cashier only)
func MarkTableAsPaid(c *gin.Context) {
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
	if err := svc.MarkTableAsPaid(c.Param("table"), session); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Table marked as paid",
	})
}

// ClearTable handles DELETE /api/v1/tables/:table/orders - removes every
// order record of the table (cashier only, irreversible)
func ClearTable(c *gin.Context) {
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
	if err := svc.ClearTable(c.Param("table"), session); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Table cleared",
	})
}

// ReassignTable handles PUT /api/v1/tables/:table/waiter - hands the table
// and its open orders to another waiter (cashier only)
func ReassignTable(c *gin.Context) {
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

	var req ReassignTableRequest
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
	if err := svc.ReassignTable(c.Param("table"), req.WaiterID, session); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Table reassigned",
	})
}

// GetTableBilling handles GET /api/v1/tables/:table/billing - the billing
// aggregate the views gate their buttons on
func GetTableBilling(c *gin.Context) {
	table := c.Param("table")
	orders := readModel.OrdersForTable(table)

	cfg := config.GetConfig()
	total := services.ComputeBillableTotal(orders)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"tableNumber":    table,
			"billableTotal":  total,
			"totalFormatted": utils.FormatPrice(total, utils.CurrencyUSD),
			"totalVes":       utils.ConvertToVes(total, cfg.BCVRate),
			"totalVesFormatted": utils.FormatPrice(
				utils.ConvertToVes(total, cfg.BCVRate), utils.CurrencyVES),
			"canRequestBill": services.CanRequestBill(orders),
			"canCloseTable":  services.CanCloseTable(orders),
		},
	})
}

// ListAssignments handles GET /api/v1/tables - the table→waiter map
func ListAssignments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    readModel.Assignments(),
	})
}
