package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tugasku/backend/internal/cache"
	"tugasku/backend/internal/models"
	"tugasku/backend/internal/services"
	"tugasku/backend/internal/validation"
)

const (
	categoryListCacheKey = "categories:list"
	categoryListCacheTTL = 5 * time.Minute
)

type CategoryHandler struct {
	db              *gorm.DB
	categoryService services.CategoryService
	cache           *cache.RedisCache
	log             *zap.Logger
}

// NewCategoryHandler accepts a nil cache; listing then always hits the
// database.
func NewCategoryHandler(db *gorm.DB, categoryService services.CategoryService, redisCache *cache.RedisCache, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{db: db, categoryService: categoryService, cache: redisCache, log: log}
}

// ListCategories serves from the cache when possible. This is the only read
// in the system allowed to be cached; task and dashboard reads never are.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	if h.cache != nil {
		var cached []models.CategoryResponse
		if err := h.cache.Get(categoryListCacheKey, &cached); err == nil {
			c.JSON(http.StatusOK, gin.H{"categories": cached})
			return
		}
	}

	categories, counts, err := h.categoryService.List(h.db)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	responses := make([]models.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, categories[i].ToResponse(counts[categories[i].ID]))
	}

	if h.cache != nil {
		if err := h.cache.Set(categoryListCacheKey, responses, categoryListCacheTTL); err != nil {
			h.log.Warn("category cache set failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"categories": responses})
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	data, ok := bindJSONMap(c)
	if !ok {
		return
	}

	if err := validation.ValidateCategoryData(data, false); err != nil {
		respondError(c, h.log, err)
		return
	}

	category, err := h.categoryService.Create(h.db, stringValue(data, "name"), stringValue(data, "description"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.invalidateListCache()

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category.ToResponse(0),
	})
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	data, ok := bindJSONMap(c)
	if !ok {
		return
	}

	if err := validation.ValidateCategoryData(data, true); err != nil {
		respondError(c, h.log, err)
		return
	}

	category, err := h.categoryService.Update(h.db, id, services.CategoryUpdate{
		Name:        stringPtr(data, "name"),
		Description: stringPtr(data, "description"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.invalidateListCache()

	c.JSON(http.StatusOK, gin.H{
		"message":  "Category updated successfully",
		"category": category.ToResponse(0),
	})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.categoryService.Delete(h.db, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.invalidateListCache()

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func (h *CategoryHandler) invalidateListCache() {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(categoryListCacheKey); err != nil {
		h.log.Warn("category cache invalidation failed", zap.Error(err))
	}
}
