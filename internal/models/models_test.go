package models_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tugasku/backend/internal/models"
)

func TestUser_SetPassword(t *testing.T) {
	user := models.User{Username: "alice"}

	if err := user.SetPassword("secret1", 4); err != nil {
		t.Fatalf("Failed to set password: %v", err)
	}

	if user.PasswordHash == "secret1" {
		t.Error("Stored hash must never equal the plaintext")
	}
	if !strings.HasPrefix(user.PasswordHash, "$2") {
		t.Errorf("Expected a bcrypt hash, got %s", user.PasswordHash)
	}

	if !user.CheckPassword("secret1") {
		t.Error("Expected correct password to verify")
	}
	if user.CheckPassword("wrong") {
		t.Error("Expected wrong password to fail")
	}
}

func TestUser_CheckPasswordMalformedHash(t *testing.T) {
	user := models.User{Username: "alice", PasswordHash: "not-a-bcrypt-hash"}

	// Fails closed rather than panicking or erroring.
	if user.CheckPassword("anything") {
		t.Error("Malformed hash must never verify")
	}
}

func TestUser_ResponseExcludesPasswordHash(t *testing.T) {
	user := models.User{
		ID:           1,
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$something",
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	data, err := json.Marshal(user.ToResponse())
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}
	if strings.Contains(string(data), "$2a$10$something") {
		t.Error("Serialized user must not contain the password hash")
	}
	if !strings.Contains(string(data), `"username":"alice"`) {
		t.Errorf("Expected username in response, got %s", data)
	}
}

func TestTask_ToResponse(t *testing.T) {
	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	task := models.Task{
		ID:       7,
		Title:    "Buy milk",
		Status:   models.StatusPending,
		Priority: models.PriorityMedium,
		DueDate:  &due,
		User:     &models.User{ID: 1, Username: "alice"},
		Category: &models.Category{ID: 2, Name: "errands"},
	}

	resp := task.ToResponse()

	if resp.DueDate == nil || *resp.DueDate != "2026-09-01T12:00:00Z" {
		t.Errorf("Expected ISO due date, got %v", resp.DueDate)
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Error("Expected embedded owner summary")
	}
	if resp.Category == nil || resp.Category.Name != "errands" {
		t.Error("Expected embedded category summary")
	}
}

func TestTask_ToResponseNilRelations(t *testing.T) {
	task := models.Task{ID: 7, Title: "Solo", Status: models.StatusPending}

	resp := task.ToResponse()

	if resp.DueDate != nil {
		t.Error("Expected nil due date")
	}
	if resp.Category != nil {
		t.Error("Expected nil category")
	}
}

func TestTaskLog_ToResponse(t *testing.T) {
	oldStatus := models.StatusPending
	log := models.TaskLog{
		ID:        3,
		TaskID:    7,
		OldStatus: &oldStatus,
		NewStatus: models.StatusCompleted,
		Notes:     "done",
		User:      &models.User{Username: "alice"},
	}

	resp := log.ToResponse()

	if resp.OldStatus == nil || *resp.OldStatus != models.StatusPending {
		t.Errorf("Expected old status pending, got %v", resp.OldStatus)
	}
	if resp.ChangedBy != "alice" {
		t.Errorf("Expected changed_by alice, got %s", resp.ChangedBy)
	}
}
