package models

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var (
	ValidStatuses   = []string{StatusPending, StatusInProgress, StatusCompleted}
	ValidPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
)

type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description"`
	Status      string     `json:"status" gorm:"size:50;not null;default:'pending'"`
	Priority    string     `json:"priority" gorm:"size:20;not null;default:'medium'"`
	DueDate     *time.Time `json:"due_date"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	CategoryID  *uint      `json:"category_id" gorm:"index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Logs     []TaskLog `json:"logs,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

type TaskResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	DueDate     *string           `json:"due_date"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
	User        *UserResponse     `json:"user"`
	Category    *CategoryResponse `json:"category"`
}

func (t *Task) ToResponse() TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(time.RFC3339)
		resp.DueDate = &due
	}
	if t.User != nil {
		user := t.User.ToResponse()
		resp.User = &user
	}
	if t.Category != nil {
		category := t.Category.ToResponse(0)
		resp.Category = &category
	}
	return resp
}
