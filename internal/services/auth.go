package services

import (
	"errors"

	"gorm.io/gorm"

	"tugasku/backend/internal/models"
)

type AuthService interface {
	LoginUser(db *gorm.DB, usernameOrEmail, password string) (*models.User, error)
}

type AuthServiceImpl struct{}

func NewAuthService() *AuthServiceImpl {
	return &AuthServiceImpl{}
}

// LoginUser resolves the identifier against username or email, restricted to
// active accounts. Missing user and wrong password are indistinguishable to
// the caller.
func (s *AuthServiceImpl) LoginUser(db *gorm.DB, usernameOrEmail, password string) (*models.User, error) {
	var user models.User
	err := db.Where("(username = ? OR email = ?) AND is_active = ?", usernameOrEmail, usernameOrEmail, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
