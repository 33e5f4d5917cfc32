package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cachapa/comanda-api/config"
	"github.com/cachapa/comanda-api/controllers"
	"github.com/cachapa/comanda-api/middleware"
	"github.com/cachapa/comanda-api/models"
	"github.com/cachapa/comanda-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Comanda API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to the database backing the state store
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.OpenStore(); err != nil {
		log.Fatalf("Failed to open state store: %v", err)
	}

	// Seed the waiter roster and table assignments on first run
	if err := services.Seed(config.GetStore()); err != nil {
		log.Fatalf("Failed to seed initial state: %v", err)
	}
	log.Println("State store ready")

	// The read model every list endpoint serves from
	readModel := services.NewReadModel(config.GetStore())
	defer readModel.Close()
	controllers.SetReadModel(readModel)

	// Dish photo storage is optional; the menu works without it
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitPhotoService(); err != nil {
			log.Fatalf("Failed to initialize photo storage: %v", err)
		}
		log.Println("Photo storage initialized")
	}

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// The menu feed is public; check-in happens before any token exists
		v1.GET("/menu", controllers.GetMenu)

		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg))
		{
			authed.GET("/orders", controllers.ListOrders)
			authed.POST("/orders", middleware.RequireRole(models.RoleClient), controllers.PlaceOrder)
			authed.POST("/orders/:id/approve", middleware.RequireRole(models.RoleWaiter), controllers.ApproveOrder)
			authed.POST("/orders/:id/deliver", middleware.RequireRole(models.RoleWaiter), controllers.MarkDelivered)

			authed.GET("/tables", controllers.ListAssignments)
			authed.GET("/tables/:table/billing", controllers.GetTableBilling)
			authed.POST("/tables/:table/bill", controllers.RequestBill)
			authed.POST("/tables/:table/paid", middleware.RequireRole(models.RoleCashier), controllers.MarkTableAsPaid)
			authed.DELETE("/tables/:table/orders", middleware.RequireRole(models.RoleCashier), controllers.ClearTable)
			authed.PUT("/tables/:table/waiter", middleware.RequireRole(models.RoleCashier), controllers.ReassignTable)

			authed.GET("/waiters", controllers.ListWaiters)
			authed.POST("/waiters", middleware.RequireRole(models.RoleCashier), controllers.AddWaiter)
			authed.DELETE("/waiters/:name", middleware.RequireRole(models.RoleCashier), controllers.DeleteWaiter)

			authed.GET("/calls", controllers.ListCalls)
			authed.POST("/calls", middleware.RequireRole(models.RoleClient), controllers.CallWaiter)
			authed.DELETE("/calls/:table", controllers.AcknowledgeCall)

			authed.POST("/menu/photos", middleware.RequireRole(models.RoleCashier), controllers.UploadMenuPhoto)
		}
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comanda API is running",
	})
}
