package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"tugasku/backend/internal/models"
	"tugasku/backend/internal/utils"
)

// TaskFilters are conjunctive: every non-zero filter narrows the listing.
type TaskFilters struct {
	Search     string
	CategoryID *uint
	Status     string
	Priority   string
}

type TaskSort struct {
	By    string
	Order string
}

type TaskCreate struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	CategoryID  *uint
}

// TaskUpdate carries a partial update. The Set flags distinguish "clear this
// field" from "field absent".
type TaskUpdate struct {
	Title         *string
	Description   *string
	Priority      *string
	DueDate       *time.Time
	DueDateSet    bool
	CategoryID    *uint
	CategoryIDSet bool
	Status        *string
	StatusNotes   string
}

type TaskService interface {
	List(db *gorm.DB, ownerID uint, filters TaskFilters, sort TaskSort, page utils.PageRequest) ([]models.Task, utils.Pagination, error)
	Create(db *gorm.DB, ownerID uint, input TaskCreate) (*models.Task, error)
	Get(db *gorm.DB, ownerID uint, id uint) (*models.Task, []models.TaskLog, error)
	Update(db *gorm.DB, ownerID uint, id uint, input TaskUpdate) (*models.Task, error)
	Delete(db *gorm.DB, ownerID uint, id uint) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// taskSortFields whitelists sortable task columns. Anything else leaves the
// listing unsorted.
var taskSortFields = map[string]bool{
	"id":          true,
	"title":       true,
	"description": true,
	"status":      true,
	"priority":    true,
	"due_date":    true,
	"category_id": true,
	"created_at":  true,
	"updated_at":  true,
}

func (s *TaskServiceImpl) List(db *gorm.DB, ownerID uint, filters TaskFilters, sort TaskSort, page utils.PageRequest) ([]models.Task, utils.Pagination, error) {
	query := db.Model(&models.Task{}).Where("user_id = ?", ownerID)

	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Priority != "" {
		query = query.Where("priority = ?", filters.Priority)
	}

	// Count before ordering; ORDER BY has no place in the COUNT query.
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, err
	}

	if taskSortFields[sort.By] {
		direction := "DESC"
		if strings.EqualFold(sort.Order, "asc") {
			direction = "ASC"
		}
		query = query.Order(sort.By + " " + direction)
	}

	var tasks []models.Task
	err := query.
		Preload("User").
		Preload("Category").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&tasks).Error
	if err != nil {
		return nil, utils.Pagination{}, err
	}

	return tasks, utils.NewPagination(page, total), nil
}

func (s *TaskServiceImpl) Create(db *gorm.DB, ownerID uint, input TaskCreate) (*models.Task, error) {
	if input.Status == "" {
		input.Status = models.StatusPending
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	task := models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		UserID:      ownerID,
		CategoryID:  input.CategoryID,
	}

	// Task insert and its initial log row commit together or not at all.
	err := db.Transaction(func(tx *gorm.DB) error {
		if input.CategoryID != nil {
			if err := categoryExists(tx, *input.CategoryID); err != nil {
				return err
			}
		}

		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		log := models.TaskLog{
			TaskID:    task.ID,
			OldStatus: nil,
			NewStatus: task.Status,
			ChangedBy: ownerID,
			Notes:     "Task created",
		}
		return tx.Create(&log).Error
	})
	if err != nil {
		return nil, err
	}

	return s.reload(db, task.ID)
}

func (s *TaskServiceImpl) Get(db *gorm.DB, ownerID uint, id uint) (*models.Task, []models.TaskLog, error) {
	task, err := ownedTask(db.Preload("User").Preload("Category"), ownerID, id)
	if err != nil {
		return nil, nil, err
	}

	var logs []models.TaskLog
	err = db.Where("task_id = ?", task.ID).
		Preload("User").
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, nil, err
	}

	return task, logs, nil
}

func (s *TaskServiceImpl) Update(db *gorm.DB, ownerID uint, id uint, input TaskUpdate) (*models.Task, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		task, err := ownedTask(tx, ownerID, id)
		if err != nil {
			return err
		}

		if input.Title != nil {
			task.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			task.Description = strings.TrimSpace(*input.Description)
		}
		if input.Priority != nil {
			task.Priority = *input.Priority
		}
		if input.DueDateSet {
			task.DueDate = input.DueDate
		}
		if input.CategoryIDSet {
			if input.CategoryID != nil {
				if err := categoryExists(tx, *input.CategoryID); err != nil {
					return err
				}
			}
			task.CategoryID = input.CategoryID
		}

		// A status change appends exactly one log row; a status echoing the
		// current value does not.
		if input.Status != nil && *input.Status != task.Status {
			oldStatus := task.Status
			task.Status = *input.Status

			notes := input.StatusNotes
			if notes == "" {
				notes = fmt.Sprintf("Status changed from %s to %s", oldStatus, task.Status)
			}
			log := models.TaskLog{
				TaskID:    task.ID,
				OldStatus: &oldStatus,
				NewStatus: task.Status,
				ChangedBy: ownerID,
				Notes:     notes,
			}
			if err := tx.Create(&log).Error; err != nil {
				return err
			}
		}

		return tx.Save(task).Error
	})
	if err != nil {
		return nil, err
	}

	return s.reload(db, id)
}

func (s *TaskServiceImpl) Delete(db *gorm.DB, ownerID uint, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		task, err := ownedTask(tx, ownerID, id)
		if err != nil {
			return err
		}

		// Explicit log cleanup keeps the cascade identical across postgres
		// and the sqlite test databases.
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
}

func (s *TaskServiceImpl) reload(db *gorm.DB, id uint) (*models.Task, error) {
	var task models.Task
	err := db.Preload("User").Preload("Category").First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ownedTask scopes the lookup to the owner. A task owned by someone else is
// reported exactly like a missing one.
func ownedTask(db *gorm.DB, ownerID uint, id uint) (*models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND user_id = ?", id, ownerID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func categoryExists(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &ReferenceError{Message: "Category not found"}
	}
	return nil
}
