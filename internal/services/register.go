package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"tugasku/backend/internal/models"
)

type RegistrationInput struct {
	Username string
	Email    string
	Password string
}

type RegisterService interface {
	RegisterUser(db *gorm.DB, input RegistrationInput) (*models.User, error)
}

type RegisterServiceImpl struct {
	bcryptCost int
}

func NewRegisterService(bcryptCost int) *RegisterServiceImpl {
	return &RegisterServiceImpl{bcryptCost: bcryptCost}
}

// RegisterUser creates a new active account. Username collisions are reported
// before email collisions.
func (s *RegisterServiceImpl) RegisterUser(db *gorm.DB, input RegistrationInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, &ConflictError{Message: "Username already exists"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, &ConflictError{Message: "Email already exists"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := models.User{
		Username: username,
		Email:    email,
		IsActive: true,
	}
	if err := user.SetPassword(input.Password, s.bcryptCost); err != nil {
		return nil, err
	}

	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
