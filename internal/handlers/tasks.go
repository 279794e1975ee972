package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tugasku/backend/internal/config"
	"tugasku/backend/internal/middleware"
	"tugasku/backend/internal/models"
	"tugasku/backend/internal/services"
	"tugasku/backend/internal/utils"
	"tugasku/backend/internal/validation"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
	pagination  config.PaginationConfig
	log         *zap.Logger
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService, pagination config.PaginationConfig, log *zap.Logger) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService, pagination: pagination, log: log}
}

type taskDetailResponse struct {
	models.TaskResponse
	Logs []models.TaskLogResponse `json:"logs"`
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	filters := services.TaskFilters{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			categoryID := uint(id)
			filters.CategoryID = &categoryID
		}
	}

	sort := services.TaskSort{
		By:    c.DefaultQuery("sort_by", "created_at"),
		Order: c.DefaultQuery("sort_order", "desc"),
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	pageReq := utils.PageRequest{Page: page, PageSize: pageSize}.
		Clamp(h.pagination.DefaultPageSize, h.pagination.MaxPageSize)

	tasks, pagination, err := h.taskService.List(h.db, user.ID, filters, sort, pageReq)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	responses := make([]models.TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, tasks[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      responses,
		"pagination": pagination,
	})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	data, ok := bindJSONMap(c)
	if !ok {
		return
	}

	if err := validation.ValidateTaskData(data, false); err != nil {
		respondError(c, h.log, err)
		return
	}

	input := services.TaskCreate{
		Title:       stringValue(data, "title"),
		Description: stringValue(data, "description"),
		Status:      stringValue(data, "status"),
		Priority:    stringValue(data, "priority"),
	}

	if raw := stringValue(data, "due_date"); raw != "" {
		dueDate, err := validation.ParseDueDate(raw)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		input.DueDate = dueDate
	}

	if value, present := data["category_id"]; present && value != nil {
		categoryID, ok := uintFromAny(value)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category_id must be a number"})
			return
		}
		input.CategoryID = &categoryID
	}

	task, err := h.taskService.Create(h.db, user.ID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info("task created",
		zap.Uint("task_id", task.ID),
		zap.Uint("user_id", user.ID),
	)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    task.ToResponse(),
	})
}

// GetTask returns the task with its status log, newest entries first.
func (h *TaskHandler) GetTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	task, logs, err := h.taskService.Get(h.db, user.ID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	detail := taskDetailResponse{
		TaskResponse: task.ToResponse(),
		Logs:         make([]models.TaskLogResponse, 0, len(logs)),
	}
	for i := range logs {
		detail.Logs = append(detail.Logs, logs[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"task": detail})
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	data, ok := bindJSONMap(c)
	if !ok {
		return
	}

	if err := validation.ValidateTaskData(data, true); err != nil {
		respondError(c, h.log, err)
		return
	}

	input := services.TaskUpdate{
		Title:       stringPtr(data, "title"),
		Description: stringPtr(data, "description"),
		Priority:    stringPtr(data, "priority"),
		Status:      stringPtr(data, "status"),
		StatusNotes: stringValue(data, "status_notes"),
	}

	if value, present := data["due_date"]; present {
		input.DueDateSet = true
		if raw, _ := value.(string); raw != "" {
			dueDate, err := validation.ParseDueDate(raw)
			if err != nil {
				respondError(c, h.log, err)
				return
			}
			input.DueDate = dueDate
		}
	}

	if value, present := data["category_id"]; present {
		input.CategoryIDSet = true
		if value != nil {
			categoryID, ok := uintFromAny(value)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "category_id must be a number"})
				return
			}
			input.CategoryID = &categoryID
		}
	}

	task, err := h.taskService.Update(h.db, user.ID, id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info("task updated",
		zap.Uint("task_id", task.ID),
		zap.Uint("user_id", user.ID),
	)

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    task.ToResponse(),
	})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(h.db, user.ID, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info("task deleted",
		zap.Uint("task_id", id),
		zap.Uint("user_id", user.ID),
	)

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// idParam reads the :id path segment. A non-numeric id behaves like a
// missing record.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}
