// Package validation checks incoming payloads before any mutation is
// attempted. Every violation found is reported, not just the first.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tugasku/backend/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// letters, digits and underscores only
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
				return false
			}
		}
		return true
	})
	return v
}

// Error aggregates every violation found in a payload.
type Error struct {
	Errors []string `json:"errors"`
}

func (e *Error) Error() string {
	return strings.Join(e.Errors, "; ")
}

func errorOrNil(errs []string) error {
	if len(errs) > 0 {
		return &Error{Errors: errs}
	}
	return nil
}

func stringField(data map[string]any, key string) (string, bool) {
	value, present := data[key]
	if !present {
		return "", false
	}
	s, _ := value.(string)
	return s, true
}

// ValidateUserData checks registration payloads. In update mode fields are
// only checked when present.
func ValidateUserData(data map[string]any, isUpdate bool) error {
	var errs []string

	if username, present := stringField(data, "username"); !isUpdate || present {
		username = strings.TrimSpace(username)
		switch {
		case username == "":
			errs = append(errs, "Username is required")
		case len(username) < 3:
			errs = append(errs, "Username must be at least 3 characters")
		case len(username) > 50:
			errs = append(errs, "Username must be less than 50 characters")
		case validate.Var(username, "username") != nil:
			errs = append(errs, "Username can only contain letters, numbers, and underscores")
		}
	}

	if email, present := stringField(data, "email"); !isUpdate || present {
		email = strings.TrimSpace(email)
		if email == "" {
			errs = append(errs, "Email is required")
		} else if validate.Var(email, "email") != nil {
			errs = append(errs, "Invalid email format")
		}
	}

	if password, present := stringField(data, "password"); !isUpdate || present {
		if password == "" {
			errs = append(errs, "Password is required")
		} else if len(password) < 6 {
			errs = append(errs, "Password must be at least 6 characters")
		}
	}

	return errorOrNil(errs)
}

// ValidateTaskData checks task payloads. Title is only required on create;
// enum fields are checked whenever present.
func ValidateTaskData(data map[string]any, isUpdate bool) error {
	var errs []string

	if title, present := stringField(data, "title"); !isUpdate || present {
		title = strings.TrimSpace(title)
		if title == "" {
			errs = append(errs, "Title is required")
		} else if len(title) > 255 {
			errs = append(errs, "Title must be less than 255 characters")
		}
	}

	if status, present := stringField(data, "status"); present && status != "" {
		if validate.Var(status, "oneof=pending in_progress completed") != nil {
			errs = append(errs, fmt.Sprintf("Status must be one of: %s", strings.Join(models.ValidStatuses, ", ")))
		}
	}

	if priority, present := stringField(data, "priority"); present && priority != "" {
		if validate.Var(priority, "oneof=low medium high") != nil {
			errs = append(errs, fmt.Sprintf("Priority must be one of: %s", strings.Join(models.ValidPriorities, ", ")))
		}
	}

	if description, present := stringField(data, "description"); present {
		if len(description) > 2000 {
			errs = append(errs, "Description must be less than 2000 characters")
		}
	}

	return errorOrNil(errs)
}

// ValidateCategoryData checks category payloads.
func ValidateCategoryData(data map[string]any, isUpdate bool) error {
	var errs []string

	if name, present := stringField(data, "name"); !isUpdate || present {
		name = strings.TrimSpace(name)
		if name == "" {
			errs = append(errs, "Name is required")
		} else if len(name) > 100 {
			errs = append(errs, "Name must be less than 100 characters")
		}
	}

	if description, present := stringField(data, "description"); present {
		if len(description) > 500 {
			errs = append(errs, "Description must be less than 500 characters")
		}
	}

	return errorOrNil(errs)
}

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDueDate parses an ISO-8601 due date. An empty string means no due
// date.
func ParseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, &Error{Errors: []string{"Invalid due_date format. Use ISO format."}}
}
