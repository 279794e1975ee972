package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Root describes the API surface.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "TugasKu API",
		"version":     "1.0.0",
		"description": "Task Management API",
		"endpoints": gin.H{
			"health": "/api/health",
			"auth": gin.H{
				"register": "/api/auth/register",
				"login":    "/api/auth/login",
				"profile":  "/api/auth/profile",
			},
			"tasks": gin.H{
				"list":   "/api/tasks",
				"detail": "/api/tasks/:id",
			},
			"categories": gin.H{
				"list":   "/api/categories",
				"detail": "/api/categories/:id",
			},
			"dashboard": "/api/dashboard",
		},
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "degraded",
			"message": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "TugasKu API is running",
	})
}
