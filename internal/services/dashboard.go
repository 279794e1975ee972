package services

import (
	"gorm.io/gorm"

	"tugasku/backend/internal/models"
)

type DashboardStatistics struct {
	TotalTasks      int64 `json:"total_tasks"`
	PendingTasks    int64 `json:"pending_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
}

type CategoryStat struct {
	Category  models.Category
	TaskCount int64
}

type DashboardSummary struct {
	Statistics    DashboardStatistics
	RecentTasks   []models.Task
	CategoryStats []CategoryStat
}

type DashboardService interface {
	Summarize(db *gorm.DB, ownerID uint) (*DashboardSummary, error)
}

type DashboardServiceImpl struct{}

func NewDashboardService() *DashboardServiceImpl {
	return &DashboardServiceImpl{}
}

// Summarize computes every figure at read time, scoped to the owner's tasks.
// Nothing here is cached or denormalized, so a write in the same session is
// visible immediately.
func (s *DashboardServiceImpl) Summarize(db *gorm.DB, ownerID uint) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	owned := func() *gorm.DB {
		return db.Model(&models.Task{}).Where("user_id = ?", ownerID)
	}

	if err := owned().Count(&summary.Statistics.TotalTasks).Error; err != nil {
		return nil, err
	}
	statusCounts := map[string]*int64{
		models.StatusPending:    &summary.Statistics.PendingTasks,
		models.StatusInProgress: &summary.Statistics.InProgressTasks,
		models.StatusCompleted:  &summary.Statistics.CompletedTasks,
	}
	for status, dest := range statusCounts {
		if err := owned().Where("status = ?", status).Count(dest).Error; err != nil {
			return nil, err
		}
	}

	err := db.Where("user_id = ?", ownerID).
		Preload("User").
		Preload("Category").
		Order("created_at DESC").
		Limit(5).
		Find(&summary.RecentTasks).Error
	if err != nil {
		return nil, err
	}

	// One grouped query instead of a count per category; categories without
	// owner tasks never appear.
	type categoryCount struct {
		CategoryID uint
		Count      int64
	}
	var counts []categoryCount
	err = owned().
		Select("category_id, COUNT(*) AS count").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	if len(counts) > 0 {
		ids := make([]uint, 0, len(counts))
		for _, cc := range counts {
			ids = append(ids, cc.CategoryID)
		}

		var categories []models.Category
		if err := db.Where("id IN ?", ids).Order("name").Find(&categories).Error; err != nil {
			return nil, err
		}

		countByID := make(map[uint]int64, len(counts))
		for _, cc := range counts {
			countByID[cc.CategoryID] = cc.Count
		}
		for _, category := range categories {
			summary.CategoryStats = append(summary.CategoryStats, CategoryStat{
				Category:  category,
				TaskCount: countByID[category.ID],
			})
		}
	}

	return summary, nil
}
