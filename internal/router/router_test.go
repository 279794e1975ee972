package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tugasku/backend/internal/config"
	"tugasku/backend/internal/repositories"
	"tugasku/backend/internal/router"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			ExpirationHours: 1,
			BCryptCost:      4,
		},
		Pagination: config.PaginationConfig{DefaultPageSize: 20, MaxPageSize: 100},
		RateLimit:  config.RateLimitConfig{Enabled: false},
		CORS:       config.CORSConfig{Origins: []string{"http://localhost:3000"}},
	}
}

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return router.New(db, nil, testConfig(), zap.NewNop())
}

func request(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var data []byte
	if body != nil {
		data, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func registerUser(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := request(r, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to register %s: %d %s", username, w.Code, w.Body.String())
	}
	body := decode(t, w)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("Registration did not return a token")
	}
	return token
}

func TestHealthAndRoot(t *testing.T) {
	r := setupServer(t)

	w := request(r, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	if body["status"] != "ok" {
		t.Errorf("Unexpected health body %v", body)
	}

	for _, path := range []string{"/", "/api"} {
		w := request(r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := setupServer(t)

	for _, path := range []string{"/api/tasks", "/api/categories", "/api/dashboard", "/api/auth/profile"} {
		w := request(r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without a token: expected 401, got %d", path, w.Code)
		}
	}
}

func TestRegisterLoginProfile(t *testing.T) {
	r := setupServer(t)
	registerUser(t, r, "alice")

	// Login works with the username and with the email.
	for _, identifier := range []string{"alice", "alice@example.com"} {
		w := request(r, http.MethodPost, "/api/auth/login", "", map[string]any{
			"username": identifier,
			"password": "secret123",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("Login as %q: expected 200, got %d %s", identifier, w.Code, w.Body.String())
		}
		body := decode(t, w)
		if body["message"] != "Login successful" {
			t.Errorf("Unexpected message %v", body["message"])
		}
		user, _ := body["user"].(map[string]any)
		if user["username"] != "alice" {
			t.Errorf("Unexpected user %v", user)
		}
		if _, hasHash := user["password_hash"]; hasHash {
			t.Error("Password hash leaked in the login response")
		}

		token, _ := body["token"].(string)
		profile := request(r, http.MethodGet, "/api/auth/profile", token, nil)
		if profile.Code != http.StatusOK {
			t.Errorf("Profile with fresh token: expected 200, got %d", profile.Code)
		}
	}

	w := request(r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "alice",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Wrong password: expected 401, got %d", w.Code)
	}

	w = request(r, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Duplicate username: expected 409, got %d", w.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	r := setupServer(t)
	alice := registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")

	// Create.
	w := request(r, http.MethodPost, "/api/tasks", alice, map[string]any{
		"title": "Buy milk",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create: expected 201, got %d %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	task, _ := created["task"].(map[string]any)
	if task["status"] != "pending" || task["priority"] != "medium" {
		t.Errorf("Unexpected defaults %v", task)
	}
	taskID := int(task["id"].(float64))

	// Detail carries the creation log.
	w = request(r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", taskID), alice, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Get: expected 200, got %d", w.Code)
	}
	detail := decode(t, w)["task"].(map[string]any)
	logs, _ := detail["logs"].([]any)
	if len(logs) != 1 {
		t.Fatalf("Expected 1 log after create, got %d", len(logs))
	}
	firstLog := logs[0].(map[string]any)
	if firstLog["notes"] != "Task created" || firstLog["new_status"] != "pending" {
		t.Errorf("Unexpected initial log %v", firstLog)
	}

	// Listing filters by status.
	w = request(r, http.MethodGet, "/api/tasks?status=pending", alice, nil)
	listed := decode(t, w)
	tasks, _ := listed["tasks"].([]any)
	if len(tasks) != 1 {
		t.Errorf("Expected 1 pending task, got %d", len(tasks))
	}

	// Another user cannot see or touch the task.
	w = request(r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", taskID), bob, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Foreign get: expected 404, got %d", w.Code)
	}
	w = request(r, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), bob, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Foreign delete: expected 404, got %d", w.Code)
	}

	// Complete the task; a second log row appears.
	w = request(r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", taskID), alice, map[string]any{
		"status": "completed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Update: expected 200, got %d %s", w.Code, w.Body.String())
	}

	w = request(r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", taskID), alice, nil)
	detail = decode(t, w)["task"].(map[string]any)
	logs, _ = detail["logs"].([]any)
	if len(logs) != 2 {
		t.Fatalf("Expected 2 logs after status change, got %d", len(logs))
	}

	// Dashboard reflects the change immediately.
	w = request(r, http.MethodGet, "/api/dashboard", alice, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Dashboard: expected 200, got %d", w.Code)
	}
	dashboard := decode(t, w)
	stats, _ := dashboard["statistics"].(map[string]any)
	if stats["total_tasks"].(float64) != 1 || stats["completed_tasks"].(float64) != 1 {
		t.Errorf("Unexpected statistics %v", stats)
	}
	recent, _ := dashboard["recent_tasks"].([]any)
	if len(recent) != 1 {
		t.Errorf("Expected 1 recent task, got %d", len(recent))
	}

	// Bob's dashboard stays empty.
	w = request(r, http.MethodGet, "/api/dashboard", bob, nil)
	bobStats := decode(t, w)["statistics"].(map[string]any)
	if bobStats["total_tasks"].(float64) != 0 {
		t.Errorf("Bob's dashboard leaked tasks: %v", bobStats)
	}

	// Delete.
	w = request(r, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), alice, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Delete: expected 200, got %d", w.Code)
	}
	w = request(r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", taskID), alice, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("After delete: expected 404, got %d", w.Code)
	}
}

func TestTaskValidationErrors(t *testing.T) {
	r := setupServer(t)
	alice := registerUser(t, r, "alice")

	w := request(r, http.MethodPost, "/api/tasks", alice, map[string]any{
		"status": "archived",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	body := decode(t, w)
	errs, _ := body["errors"].([]any)
	if len(errs) != 2 {
		t.Errorf("Expected title and status violations together, got %v", errs)
	}
}

func TestCategoryFlow(t *testing.T) {
	r := setupServer(t)
	alice := registerUser(t, r, "alice")

	w := request(r, http.MethodPost, "/api/categories", alice, map[string]any{
		"name": "Errands",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create category: expected 201, got %d %s", w.Code, w.Body.String())
	}
	category := decode(t, w)["category"].(map[string]any)
	categoryID := int(category["id"].(float64))

	// A task referencing the category blocks its deletion.
	w = request(r, http.MethodPost, "/api/tasks", alice, map[string]any{
		"title":       "Chore",
		"category_id": categoryID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create task: expected 201, got %d %s", w.Code, w.Body.String())
	}

	w = request(r, http.MethodDelete, fmt.Sprintf("/api/categories/%d", categoryID), alice, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Referenced delete: expected 400, got %d", w.Code)
	}
	if msg := decode(t, w)["error"]; msg != "Cannot delete category. It has 1 associated tasks." {
		t.Errorf("Unexpected message %v", msg)
	}

	// Listing shows the task count.
	w = request(r, http.MethodGet, "/api/categories", alice, nil)
	categories := decode(t, w)["categories"].([]any)
	if len(categories) != 1 {
		t.Fatalf("Expected 1 category, got %d", len(categories))
	}
	if count := categories[0].(map[string]any)["task_count"].(float64); count != 1 {
		t.Errorf("Expected task_count 1, got %v", count)
	}

	// Referencing an unknown category fails the create.
	w = request(r, http.MethodPost, "/api/tasks", alice, map[string]any{
		"title":       "Orphan",
		"category_id": 999,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Unknown category: expected 400, got %d", w.Code)
	}
}
