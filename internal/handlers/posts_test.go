package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/database"
)

func TestCreatePost_SlugCollisionSuffix(t *testing.T) {
	r, db := setupRouter(t, 1)
	seedUser(t, db, "author")

	slugs := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		w := doJSON(r, http.MethodPost, "/api/posts", gin.H{
			"title":   "My Great Post!",
			"content": "body",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var created map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		slugs = append(slugs, created["slug"].(string))
	}

	assert.Equal(t, []string{"my-great-post", "my-great-post-2", "my-great-post-3"}, slugs)
}

func TestUniqueSlug_PropagatesStorageError(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	h := NewPostHandler(db, nil, nil)

	// A healthy store resolves normally.
	slug, err := h.uniqueSlug("Hello World")
	require.NoError(t, err)
	assert.Equal(t, "hello-world", slug)

	// A failing store must surface its error instead of reporting the slug
	// as free.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = h.uniqueSlug("Hello World")
	assert.Error(t, err)
}
