package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/core/interactions"
	"github.com/inkstream/blog-backend/internal/core/notifications"
	"github.com/inkstream/blog-backend/internal/models"
)

type PostHandler struct {
	db           *gorm.DB
	interactions *interactions.Service
	notifier     *notifications.Service
}

func NewPostHandler(db *gorm.DB, service *interactions.Service, notifier *notifications.Service) *PostHandler {
	return &PostHandler{db: db, interactions: service, notifier: notifier}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "post"
	}
	return slug
}

// uniqueSlug resolves slug collisions with a numeric suffix: my-post,
// my-post-2, my-post-3, ...
func (h *PostHandler) uniqueSlug(title string) (string, error) {
	base := slugify(title)
	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := h.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// renderMarkdown converts post content to HTML for the detail response.
func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		log.Printf("Failed to render markdown: %v", err)
		return ""
	}
	return buf.String()
}

func (h *PostHandler) postCounts(postID int) gin.H {
	likes, _ := h.interactions.PostLikesCount(postID)

	var comments, saves, shares int64
	h.db.Model(&models.Comment{}).Where("post_id = ? AND parent_id IS NULL", postID).Count(&comments)
	h.db.Model(&models.SavedPost{}).Where("post_id = ?", postID).Count(&saves)
	h.db.Model(&models.Share{}).Where("post_id = ?", postID).Count(&shares)

	return gin.H{
		"likes_count":    likes,
		"comments_count": comments,
		"saves_count":    saves,
		"shares_count":   shares,
	}
}

// GetPosts returns published posts, newest first, optionally filtered by category
func (h *PostHandler) GetPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := h.db.Model(&models.Post{}).Where("status = ?", models.PostStatusPublished)
	if category := c.Query("category"); category != "" {
		query = query.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.slug = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var posts []models.Post
	err := query.Preload("User").Preload("Category").
		Order("published_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		item := gin.H{
			"id":           post.ID,
			"title":        post.Title,
			"slug":         post.Slug,
			"description":  post.Description,
			"category":     post.Category,
			"author_id":    post.AuthorID,
			"user":         post.User,
			"views":        post.Views,
			"published_at": post.PublishedAt,
			"created_at":   post.CreatedAt,
		}
		for k, v := range h.postCounts(post.ID) {
			item[k] = v
		}
		responses = append(responses, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": responses,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetPost returns a single post with rendered content, counts and viewer state
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var post models.Post
	if err := h.db.Preload("User").Preload("Category").First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Post not found"})
		return
	}

	viewerID, _ := extractUserID(c)

	// Drafts are only visible to their author and admins
	if !post.IsPublished() {
		var viewer models.User
		if viewerID == 0 || h.db.First(&viewer, viewerID).Error != nil ||
			(viewer.ID != post.AuthorID && !viewer.IsAdmin()) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Post not found"})
			return
		}
	}

	// View counter is incremented in SQL, not read-modify-write
	h.db.Model(&post).UpdateColumn("views", gorm.Expr("views + 1"))

	isLiked, isSaved := false, false
	if viewerID != 0 {
		isLiked, _ = h.interactions.IsPostLiked(post.ID, viewerID)
		isSaved, _ = h.interactions.IsPostSaved(post.ID, viewerID)
	}

	response := gin.H{
		"id":           post.ID,
		"title":        post.Title,
		"slug":         post.Slug,
		"content":      post.Content,
		"content_html": renderMarkdown(post.Content),
		"description":  post.Description,
		"category":     post.Category,
		"author_id":    post.AuthorID,
		"user":         post.User,
		"status":       post.Status,
		"views":        post.Views + 1,
		"is_liked":     isLiked,
		"is_saved":     isSaved,
		"published_at": post.PublishedAt,
		"created_at":   post.CreatedAt,
		"updated_at":   post.UpdatedAt,
	}
	for k, v := range h.postCounts(post.ID) {
		response[k] = v
	}

	c.JSON(http.StatusOK, response)
}

// CreatePost creates a new post in draft or published status
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": err.Error()})
		return
	}
	if strings.TrimSpace(input.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": "Title is required"})
		return
	}

	status := input.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if status != models.PostStatusDraft && status != models.PostStatusPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": "Status must be draft or published"})
		return
	}

	if input.CategoryID != nil {
		var category models.Category
		if err := h.db.First(&category, *input.CategoryID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Category not found"})
			return
		}
	}

	slug, err := h.uniqueSlug(input.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	post := models.Post{
		Title:       input.Title,
		Slug:        slug,
		Content:     input.Content,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		AuthorID:    userID,
		Status:      status,
	}
	if status == models.PostStatusPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := h.db.Create(&post).Error; err != nil {
		respondError(c, err)
		return
	}

	h.db.Preload("User").Preload("Category").First(&post, post.ID)

	if post.IsPublished() {
		h.fanOutIfAdminAuthor(&post)
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost updates a post (owner or admin). The draft → published
// transition is one-way-triggering: published_at is set on the first
// transition only and re-publishing never resets it.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var input struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		Description string `json:"description"`
		CategoryID  *int   `json:"category_id"`
		Status      string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": err.Error()})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Post not found"})
		return
	}

	var actor models.User
	if err := h.db.First(&actor, userID).Error; err != nil {
		respondError(c, err)
		return
	}
	if post.AuthorID != actor.ID && !actor.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "You can only edit your own posts"})
		return
	}

	if input.Title != "" && input.Title != post.Title {
		slug, err := h.uniqueSlug(input.Title)
		if err != nil {
			respondError(c, err)
			return
		}
		post.Title = input.Title
		post.Slug = slug
	}
	if input.Content != "" {
		post.Content = input.Content
	}
	if input.Description != "" {
		post.Description = input.Description
	}
	if input.CategoryID != nil {
		var category models.Category
		if err := h.db.First(&category, *input.CategoryID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Category not found"})
			return
		}
		post.CategoryID = input.CategoryID
	}

	firstPublish := false
	if input.Status != "" {
		if input.Status != models.PostStatusDraft && input.Status != models.PostStatusPublished {
			c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": "Status must be draft or published"})
			return
		}
		if input.Status == models.PostStatusPublished && post.PublishedAt == nil {
			now := time.Now().UTC()
			post.PublishedAt = &now
			firstPublish = true
		}
		post.Status = input.Status
	}

	if err := h.db.Save(&post).Error; err != nil {
		respondError(c, err)
		return
	}

	h.db.Preload("User").Preload("Category").First(&post, post.ID)

	if firstPublish {
		h.fanOutIfAdminAuthor(&post)
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post and everything hanging off it: comments with
// their likes, post likes, saves, shares and notifications that point at it.
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": "Post not found"})
		return
	}

	var actor models.User
	if err := h.db.First(&actor, userID).Error; err != nil {
		respondError(c, err)
		return
	}
	if post.AuthorID != actor.ID && !actor.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "You can only delete your own posts"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []int
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", post.ID).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.SavedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Share{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// fanOutIfAdminAuthor announces admin-authored articles to all regular users.
func (h *PostHandler) fanOutIfAdminAuthor(post *models.Post) {
	var author models.User
	if err := h.db.First(&author, post.AuthorID).Error; err != nil {
		log.Printf("Failed to load author %d for publish fan-out: %v", post.AuthorID, err)
		return
	}
	if !author.IsAdmin() {
		return
	}
	h.notifier.FanOutNewArticle(post, &author)
}
