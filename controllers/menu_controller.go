package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cachapa/comanda-api/config"
	"github.com/cachapa/comanda-api/services"
)

// GetMenu handles GET /api/v1/menu - fetches and parses the published menu
// feed. A failed load returns a single retryable error. Items whose image
// reference is a storage key (menu/...) get a presigned URL.
func GetMenu(c *gin.Context) {
	cfg := config.GetConfig()
	svc := services.NewMenuService(cfg.MenuCSVURL)

	items, categories, err := svc.FetchMenu()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if photos := services.GetPhotoService(); photos != nil {
		for i := range items {
			if !strings.HasPrefix(items[i].ImageURL, "menu/") {
				continue
			}
			if url, err := photos.PhotoURL(items[i].ImageURL); err == nil && url != "" {
				items[i].ImageURL = url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"categories": categories,
		},
	})
}

// UploadMenuPhoto handles POST /api/v1/menu/photos - stores a dish photo
// and returns its storage key (cashier only)
func UploadMenuPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A 'photo' file is required",
			},
		})
		return
	}

	photos := services.GetPhotoService()
	if photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PHOTOS_UNAVAILABLE",
				"message": "Photo storage is not configured",
			},
		})
		return
	}

	key, err := photos.UploadPhoto(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"key": key,
		},
	})
}
