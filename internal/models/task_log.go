package models

import "time"

// TaskLog rows are append-only; they are never updated and only removed when
// the owning task is deleted.
type TaskLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null;index"`
	OldStatus *string   `json:"old_status" gorm:"size:50"`
	NewStatus string    `json:"new_status" gorm:"size:50;not null"`
	ChangedBy uint      `json:"changed_by" gorm:"not null"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:ChangedBy"`
}

type TaskLogResponse struct {
	ID        uint    `json:"id"`
	TaskID    uint    `json:"task_id"`
	OldStatus *string `json:"old_status"`
	NewStatus string  `json:"new_status"`
	ChangedBy string  `json:"changed_by"`
	ChangedAt string  `json:"changed_at"`
	Notes     string  `json:"notes"`
}

func (l *TaskLog) ToResponse() TaskLogResponse {
	resp := TaskLogResponse{
		ID:        l.ID,
		TaskID:    l.TaskID,
		OldStatus: l.OldStatus,
		NewStatus: l.NewStatus,
		ChangedAt: l.CreatedAt.Format(time.RFC3339),
		Notes:     l.Notes,
	}
	if l.User != nil {
		resp.ChangedBy = l.User.Username
	}
	return resp
}
