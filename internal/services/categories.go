package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tugasku/backend/internal/models"
)

type CategoryUpdate struct {
	Name        *string
	Description *string
}

type CategoryService interface {
	List(db *gorm.DB) ([]models.Category, map[uint]int64, error)
	Create(db *gorm.DB, name, description string) (*models.Category, error)
	Update(db *gorm.DB, id uint, input CategoryUpdate) (*models.Category, error)
	Delete(db *gorm.DB, id uint) error
}

type CategoryServiceImpl struct{}

func NewCategoryService() *CategoryServiceImpl {
	return &CategoryServiceImpl{}
}

// List returns every category with the number of tasks referencing it.
func (s *CategoryServiceImpl) List(db *gorm.DB) ([]models.Category, map[uint]int64, error) {
	var categories []models.Category
	if err := db.Order("name").Find(&categories).Error; err != nil {
		return nil, nil, err
	}

	type categoryCount struct {
		CategoryID uint
		Count      int64
	}
	var counts []categoryCount
	err := db.Model(&models.Task{}).
		Select("category_id, COUNT(*) AS count").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, nil, err
	}

	countByID := make(map[uint]int64, len(counts))
	for _, cc := range counts {
		countByID[cc.CategoryID] = cc.Count
	}

	return categories, countByID, nil
}

func (s *CategoryServiceImpl) Create(db *gorm.DB, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)

	var existing models.Category
	if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, &ConflictError{Message: "Category already exists"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := models.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := db.Create(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

func (s *CategoryServiceImpl) Update(db *gorm.DB, id uint, input CategoryUpdate) (*models.Category, error) {
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name != category.Name {
			var existing models.Category
			if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
				return nil, &ConflictError{Message: "Category name already exists"}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	}

	if err := db.Save(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

// Delete refuses while any task still references the category, leaving both
// the category and its tasks intact.
func (s *CategoryServiceImpl) Delete(db *gorm.DB, id uint) error {
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var taskCount int64
	if err := db.Model(&models.Task{}).Where("category_id = ?", id).Count(&taskCount).Error; err != nil {
		return err
	}
	if taskCount > 0 {
		return &ReferenceError{
			Message: fmt.Sprintf("Cannot delete category. It has %d associated tasks.", taskCount),
		}
	}

	return db.Delete(&category).Error
}
