package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tugasku/backend/internal/middleware"
	"tugasku/backend/internal/models"
	"tugasku/backend/internal/services"
)

type DashboardHandler struct {
	db               *gorm.DB
	dashboardService services.DashboardService
	log              *zap.Logger
}

func NewDashboardHandler(db *gorm.DB, dashboardService services.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{db: db, dashboardService: dashboardService, log: log}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	summary, err := h.dashboardService.Summarize(h.db, user.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	recent := make([]models.TaskResponse, 0, len(summary.RecentTasks))
	for i := range summary.RecentTasks {
		recent = append(recent, summary.RecentTasks[i].ToResponse())
	}

	categoryStats := make([]gin.H, 0, len(summary.CategoryStats))
	for _, stat := range summary.CategoryStats {
		categoryStats = append(categoryStats, gin.H{
			"category":   stat.Category.ToResponse(stat.TaskCount),
			"task_count": stat.TaskCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"statistics":     summary.Statistics,
		"recent_tasks":   recent,
		"category_stats": categoryStats,
	})
}
