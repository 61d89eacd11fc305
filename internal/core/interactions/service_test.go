package interactions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/database"
	"github.com/inkstream/blog-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashedpassword",
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.User) *models.Post {
	now := time.Now().UTC()
	post := &models.Post{
		Title:       "Test Post",
		Slug:        "test-post",
		AuthorID:    author.ID,
		Status:      models.PostStatusPublished,
		PublishedAt: &now,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createTestComment(t *testing.T, db *gorm.DB, post *models.Post, author *models.User) *models.Comment {
	comment := &models.Comment{
		Content:  "a comment",
		AuthorID: author.ID,
		PostID:   post.ID,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func TestLikePost_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author)

	count, events, err := service.LikePost(post.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationTypeLike, events[0].Type)
	assert.Equal(t, author.ID, events[0].UserID)

	// Second like from the same user is a conflict, not a second row
	_, _, err = service.LikePost(post.ID, liker.ID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	var rows int64
	db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", post.ID, liker.ID).Count(&rows)
	assert.Equal(t, int64(1), rows)

	count, err = service.UnlikePost(post.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Unliking again is a conflict
	_, err = service.UnlikePost(post.ID, liker.ID)
	assert.ErrorIs(t, err, ErrNotLiked)

	// Like → unlike → like lands back on the same count
	count, _, err = service.LikePost(post.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLikePost_CountMatchesRows(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author)

	for _, name := range []string{"u1", "u2", "u3"} {
		u := createTestUser(t, db, name)
		_, _, err := service.LikePost(post.ID, u.ID)
		require.NoError(t, err)
	}

	count, err := service.PostLikesCount(post.ID)
	require.NoError(t, err)

	var rows int64
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&rows)
	assert.Equal(t, rows, count)
	assert.Equal(t, int64(3), count)
}

func TestLikePost_OwnPostNoNotification(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author)

	_, events, err := service.LikePost(post.ID, author.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLikePost_NotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	liker := createTestUser(t, db, "liker")

	_, _, err := service.LikePost(404, liker.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestSavePost_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	author := createTestUser(t, db, "author")
	saver := createTestUser(t, db, "saver")
	post := createTestPost(t, db, author)

	require.NoError(t, service.SavePost(post.ID, saver.ID))
	assert.ErrorIs(t, service.SavePost(post.ID, saver.ID), ErrAlreadySaved)

	saved, err := service.IsPostSaved(post.ID, saver.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	require.NoError(t, service.UnsavePost(post.ID, saver.ID))
	assert.ErrorIs(t, service.UnsavePost(post.ID, saver.ID), ErrNotSaved)
}

func TestLikeComment_IdempotentCreate(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author)
	comment := createTestComment(t, db, post, author)

	count, events, err := service.LikeComment(comment.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationTypeCommentLiked, events[0].Type)
	assert.Equal(t, author.ID, events[0].UserID)

	// Unlike post likes: repeating the call succeeds with the same state
	// and emits nothing new.
	count, events, err = service.LikeComment(comment.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Empty(t, events)

	var rows int64
	db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&rows)
	assert.Equal(t, int64(1), rows)
}

func TestUnlikeComment(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author)
	comment := createTestComment(t, db, post, author)

	// Absent like reports not-found, not a conflict
	_, err := service.UnlikeComment(comment.ID, liker.ID)
	assert.ErrorIs(t, err, ErrCommentLikeNotFound)

	_, _, err = service.LikeComment(comment.ID, liker.ID)
	require.NoError(t, err)

	count, err := service.UnlikeComment(comment.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUnlikeComment_CommentNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	liker := createTestUser(t, db, "liker")

	_, err := service.UnlikeComment(404, liker.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestFollow_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	summary, events, err := service.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, summary.IsFollowing)
	assert.Equal(t, int64(1), summary.FollowerCount)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationTypeFollow, events[0].Type)
	assert.Equal(t, bob.ID, events[0].UserID)
	assert.Equal(t, alice.ID, events[0].FromUserID)

	_, _, err = service.Follow(alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	following, err := service.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Follow edges are directed; bob does not follow alice
	following, err = service.IsFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)

	summary, err = service.Unfollow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, summary.IsFollowing)
	assert.Equal(t, int64(0), summary.FollowerCount)

	_, err = service.Unfollow(alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFollowing)
}

func TestFollow_SelfRejected(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	alice := createTestUser(t, db, "alice")

	_, _, err := service.Follow(alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)

	// Rejected even if a row somehow exists already
	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: alice.ID}).Error)
	_, _, err = service.Follow(alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollow_TargetNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	alice := createTestUser(t, db, "alice")

	_, _, err := service.Follow(alice.ID, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSharePost(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	author := createTestUser(t, db, "author")
	sharer := createTestUser(t, db, "sharer")
	post := createTestPost(t, db, author)

	count, events, err := service.SharePost(post.ID, sharer.ID, "twitter", "check this out")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationTypeShare, events[0].Type)
	assert.Equal(t, author.ID, events[0].UserID)

	// No uniqueness constraint: the same user may share again
	count, _, err = service.SharePost(post.ID, sharer.ID, "twitter", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSharePost_Anonymous(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author)

	count, events, err := service.SharePost(post.ID, 0, "facebook", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Empty(t, events)

	var share models.Share
	require.NoError(t, db.First(&share).Error)
	assert.Nil(t, share.UserID)
}

func TestSharePost_OwnPostNoNotification(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author)

	_, events, err := service.SharePost(post.ID, author.ID, "twitter", "")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestUniqueConstraint_TranslatedToConflict(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author)

	// Simulate a racing writer that slipped in between the service's checks:
	// the unique index, not the service, is what rejects the duplicate.
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: liker.ID}).Error)

	_, _, err := service.LikePost(post.ID, liker.ID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
}
