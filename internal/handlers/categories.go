package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/models"
)

type CategoryHandler struct {
	db *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// requireAdmin resolves the authenticated user and rejects non-admins.
func (h *CategoryHandler) requireAdmin(c *gin.Context) (*models.User, bool) {
	userID, ok := actorID(c)
	if !ok {
		return nil, false
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "User not authenticated"})
		return nil, false
	}
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "Admin access required"})
		return nil, false
	}
	return &user, true
}

// GetCategories returns all categories with their published post counts
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name asc").Find(&categories).Error; err != nil {
		respondError(c, err)
		return
	}

	responses := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		var postCount int64
		h.db.Model(&models.Post{}).
			Where("category_id = ? AND status = ?", category.ID, models.PostStatusPublished).
			Count(&postCount)
		responses = append(responses, gin.H{
			"id":          category.ID,
			"name":        category.Name,
			"slug":        category.Slug,
			"description": category.Description,
			"post_count":  postCount,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// CreateCategory creates a category (admin only)
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": err.Error()})
		return
	}

	category := models.Category{
		Name:        input.Name,
		Slug:        slugify(input.Name),
		Description: input.Description,
	}
	if err := h.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "message": "Category already exists"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory updates a category (admin only)
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": err.Error()})
		return
	}

	var category models.Category
	if err := h.db.First(&category, categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Category not found"})
		return
	}

	if strings.TrimSpace(input.Name) != "" {
		category.Name = input.Name
		category.Slug = slugify(input.Name)
	}
	if input.Description != "" {
		category.Description = input.Description
	}

	if err := h.db.Save(&category).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category (admin only); refuses while posts still
// reference it
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var category models.Category
	if err := h.db.First(&category, categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Category not found"})
		return
	}

	var postCount int64
	h.db.Model(&models.Post{}).Where("category_id = ?", category.ID).Count(&postCount)
	if postCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "message": "Category still has posts"})
		return
	}

	if err := h.db.Delete(&category).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
