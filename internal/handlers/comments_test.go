package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/database"
	"github.com/inkstream/blog-backend/internal/models"
)

// testAuth injects the user id the way the JWT middleware does, without
// minting tokens for every request.
func testAuth(userID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

func setupRouter(t *testing.T, userID int) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	h := NewHandler(db)

	r := gin.New()
	r.Use(testAuth(userID))

	r.POST("/api/register", h.Auth.Register)
	r.POST("/api/login", h.Auth.Login)
	r.POST("/api/posts", h.Post.CreatePost)
	r.GET("/api/posts/:id/comments", h.Comment.GetComments)
	r.POST("/api/posts/:id/comments", h.Comment.CreateComment)
	r.PUT("/api/comments/:commentId", h.Comment.UpdateComment)
	r.DELETE("/api/comments/:commentId", h.Comment.DeleteComment)
	r.POST("/api/posts/:id/like", h.Interaction.LikePost)
	r.DELETE("/api/posts/:id/like", h.Interaction.UnlikePost)
	r.POST("/api/posts/:id/share", h.Interaction.SharePost)

	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashedpassword",
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, author *models.User, status string) *models.Post {
	post := &models.Post{
		Title:    "Handler Test Post",
		Slug:     fmt.Sprintf("handler-test-post-%s-%s", author.Username, status),
		AuthorID: author.ID,
		Status:   status,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorKind(t *testing.T, w *httptest.ResponseRecorder) string {
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	kind, _ := body["error"].(string)
	return kind
}

func TestCreateComment_Unauthenticated(t *testing.T) {
	r, db := setupRouter(t, 0)
	owner := seedUser(t, db, "owner")
	post := seedPost(t, db, owner, models.PostStatusPublished)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), gin.H{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", errorKind(t, w))
}

func TestCreateComment_HTTP(t *testing.T) {
	r, db := setupRouter(t, 2)
	owner := seedUser(t, db, "owner")
	commenter := seedUser(t, db, "commenter")
	require.Equal(t, 2, commenter.ID)
	post := seedPost(t, db, owner, models.PostStatusPublished)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), gin.H{"content": "  hello  "})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, float64(1), created["comments_count"])
	comment, ok := created["comment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello", comment["content"])

	// The post owner got notified
	var n models.Notification
	require.NoError(t, db.First(&n).Error)
	assert.Equal(t, owner.ID, n.UserID)
	assert.Equal(t, models.NotificationTypeComment, n.Type)
}

func TestCreateComment_Validation(t *testing.T) {
	r, db := setupRouter(t, 1)
	owner := seedUser(t, db, "owner")
	post := seedPost(t, db, owner, models.PostStatusPublished)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidRequest", errorKind(t, w))

	w = doJSON(r, http.MethodPost, "/api/posts/999/comments", gin.H{"content": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NotFound", errorKind(t, w))

	w = doJSON(r, http.MethodPost, "/api/posts/abc/comments", gin.H{"content": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateComment_DraftForbidden(t *testing.T) {
	r, db := setupRouter(t, 2)
	owner := seedUser(t, db, "owner")
	seedUser(t, db, "commenter")
	draft := seedPost(t, db, owner, models.PostStatusDraft)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", draft.ID), gin.H{"content": "hi"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", errorKind(t, w))
}

func TestUpdateComment_OwnershipOverHTTP(t *testing.T) {
	r, db := setupRouter(t, 2)
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	require.Equal(t, 2, stranger.ID)
	post := seedPost(t, db, owner, models.PostStatusPublished)

	comment := &models.Comment{Content: "original", AuthorID: owner.ID, PostID: post.ID}
	require.NoError(t, db.Create(comment).Error)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/comments/%d", comment.ID), gin.H{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", errorKind(t, w))

	w = doJSON(r, http.MethodPut, "/api/comments/999", gin.H{"content": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteComment_ReturnsCount(t *testing.T) {
	r, db := setupRouter(t, 1)
	owner := seedUser(t, db, "owner")
	post := seedPost(t, db, owner, models.PostStatusPublished)

	comment := &models.Comment{Content: "bye", AuthorID: owner.ID, PostID: post.ID}
	require.NoError(t, db.Create(comment).Error)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/comments/%d", comment.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["comments_count"])
}

func TestLikePost_ConflictOverHTTP(t *testing.T) {
	r, db := setupRouter(t, 2)
	owner := seedUser(t, db, "owner")
	seedUser(t, db, "liker")
	post := seedPost(t, db, owner, models.PostStatusPublished)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["is_liked"])
	assert.Equal(t, float64(1), body["likes_count"])

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Conflict", errorKind(t, w))

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/posts/%d/like", post.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/posts/%d/like", post.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSharePost_AnonymousOverHTTP(t *testing.T) {
	r, db := setupRouter(t, 0) // no authenticated user
	owner := seedUser(t, db, "owner")
	post := seedPost(t, db, owner, models.PostStatusPublished)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/posts/%d/share", post.ID), gin.H{"platform": "twitter"})
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["shares_count"])

	// Missing platform is rejected before touching the store
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/posts/%d/share", post.ID), gin.H{"message": "no platform"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidRequest", errorKind(t, w))
}
