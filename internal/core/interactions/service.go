package interactions

import (
	"errors"

	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/core/notifications"
	"github.com/inkstream/blog-backend/internal/models"
)

// Service manages the four unique-relation toggles: like-post, save-post,
// like-comment and follow. Every relation guarantees at most one row per
// (actor, target) pair; the database's unique index is the authority, and a
// duplicate-key error on create is translated to the documented conflict
// rather than leaking as a storage failure.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// FollowSummary is the response payload for a follow mutation.
type FollowSummary struct {
	FollowingID    int   `json:"following_id"`
	IsFollowing    bool  `json:"is_following"`
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}

// LikePost records a like. A second like from the same user is a conflict.
func (s *Service) LikePost(postID, userID int) (int64, []notifications.Event, error) {
	post, actor, err := s.loadPostAndActor(postID, userID)
	if err != nil {
		return 0, nil, err
	}

	like := models.Like{PostID: postID, UserID: userID}
	if err := s.db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, nil, ErrAlreadyLiked
		}
		return 0, nil, err
	}

	count, err := s.PostLikesCount(postID)
	if err != nil {
		return 0, nil, err
	}

	events := notifications.ForRecipient(
		models.NotificationTypeLike, post.AuthorID, userID,
		&post.ID, nil, notifications.LikeMessage(actor, post.Title))
	return count, events, nil
}

// UnlikePost removes a like. Removing an absent like is a conflict.
func (s *Service) UnlikePost(postID, userID int) (int64, error) {
	if _, _, err := s.loadPostAndActor(postID, userID); err != nil {
		return 0, err
	}

	res := s.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotLiked
	}

	return s.PostLikesCount(postID)
}

// SavePost bookmarks a post. Saves never notify anyone.
func (s *Service) SavePost(postID, userID int) error {
	if _, _, err := s.loadPostAndActor(postID, userID); err != nil {
		return err
	}

	saved := models.SavedPost{PostID: postID, UserID: userID}
	if err := s.db.Create(&saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadySaved
		}
		return err
	}
	return nil
}

// UnsavePost removes a bookmark.
func (s *Service) UnsavePost(postID, userID int) error {
	if _, _, err := s.loadPostAndActor(postID, userID); err != nil {
		return err
	}

	res := s.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.SavedPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotSaved
	}
	return nil
}

// LikeComment records a like on a comment. Unlike post likes, this is an
// idempotent toggle: liking an already-liked comment succeeds with the
// current state and emits no second notification.
func (s *Service) LikeComment(commentID, userID int) (int64, []notifications.Event, error) {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, ErrCommentNotFound
		}
		return 0, nil, err
	}

	var actor models.User
	if err := s.db.First(&actor, userID).Error; err != nil {
		return 0, nil, err
	}

	var existing models.CommentLike
	err := s.db.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&existing).Error
	if err == nil {
		count, err := s.CommentLikesCount(commentID)
		return count, nil, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil, err
	}

	like := models.CommentLike{CommentID: commentID, UserID: userID}
	if err := s.db.Create(&like).Error; err != nil {
		// A concurrent like won the race; still an idempotent success.
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, nil, err
		}
		count, err := s.CommentLikesCount(commentID)
		return count, nil, err
	}

	count, err := s.CommentLikesCount(commentID)
	if err != nil {
		return 0, nil, err
	}

	events := notifications.ForRecipient(
		models.NotificationTypeCommentLiked, comment.AuthorID, userID,
		&comment.PostID, &comment.ID, notifications.CommentLikedMessage(&actor))
	return count, events, nil
}

// UnlikeComment removes a comment like; absent likes report not-found.
func (s *Service) UnlikeComment(commentID, userID int) (int64, error) {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCommentNotFound
		}
		return 0, err
	}

	res := s.db.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrCommentLikeNotFound
	}

	return s.CommentLikesCount(commentID)
}

// Follow creates a follow edge. Self-follow is rejected before any lookup.
func (s *Service) Follow(followerID, followingID int) (*FollowSummary, []notifications.Event, error) {
	if followerID == followingID {
		return nil, nil, ErrSelfFollow
	}

	var target models.User
	if err := s.db.First(&target, followingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	var actor models.User
	if err := s.db.First(&actor, followerID).Error; err != nil {
		return nil, nil, err
	}

	follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := s.db.Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrAlreadyFollowing
		}
		return nil, nil, err
	}

	summary, err := s.followSummary(followingID, true)
	if err != nil {
		return nil, nil, err
	}

	events := notifications.ForRecipient(
		models.NotificationTypeFollow, followingID, followerID,
		nil, nil, notifications.FollowMessage(&actor))
	return summary, events, nil
}

// Unfollow removes a follow edge.
func (s *Service) Unfollow(followerID, followingID int) (*FollowSummary, error) {
	var target models.User
	if err := s.db.First(&target, followingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	res := s.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFollowing
	}

	return s.followSummary(followingID, false)
}

// SharePost appends a share event. Shares have no uniqueness constraint and
// anonymous shares (userID 0) are allowed.
func (s *Service) SharePost(postID, userID int, platform, message string) (int64, []notifications.Event, error) {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, ErrPostNotFound
		}
		return 0, nil, err
	}

	share := models.Share{PostID: postID, Platform: platform, Message: message}
	var events []notifications.Event
	if userID != 0 {
		share.UserID = &userID

		var actor models.User
		if err := s.db.First(&actor, userID).Error; err != nil {
			return 0, nil, err
		}
		events = notifications.ForRecipient(
			models.NotificationTypeShare, post.AuthorID, userID,
			&post.ID, nil, notifications.ShareMessage(&actor, post.Title))
	}

	if err := s.db.Create(&share).Error; err != nil {
		return 0, nil, err
	}

	var count int64
	if err := s.db.Model(&models.Share{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	return count, events, nil
}

// IsPostLiked is a read-only existence probe; it never mutates.
func (s *Service) IsPostLiked(postID, userID int) (bool, error) {
	return s.exists(&models.Like{}, "post_id = ? AND user_id = ?", postID, userID)
}

// IsPostSaved is a read-only existence probe; it never mutates.
func (s *Service) IsPostSaved(postID, userID int) (bool, error) {
	return s.exists(&models.SavedPost{}, "post_id = ? AND user_id = ?", postID, userID)
}

// IsFollowing is a read-only existence probe; it never mutates.
func (s *Service) IsFollowing(followerID, followingID int) (bool, error) {
	return s.exists(&models.Follow{}, "follower_id = ? AND following_id = ?", followerID, followingID)
}

// PostLikesCount recounts the post's like rows.
func (s *Service) PostLikesCount(postID int) (int64, error) {
	var count int64
	err := s.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// CommentLikesCount recounts the comment's like rows.
func (s *Service) CommentLikesCount(commentID int) (int64, error) {
	var count int64
	err := s.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}

func (s *Service) followSummary(followingID int, isFollowing bool) (*FollowSummary, error) {
	var followers, following int64
	if err := s.db.Model(&models.Follow{}).Where("following_id = ?", followingID).Count(&followers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Follow{}).Where("follower_id = ?", followingID).Count(&following).Error; err != nil {
		return nil, err
	}
	return &FollowSummary{
		FollowingID:    followingID,
		IsFollowing:    isFollowing,
		FollowerCount:  followers,
		FollowingCount: following,
	}, nil
}

func (s *Service) loadPostAndActor(postID, userID int) (*models.Post, *models.User, error) {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPostNotFound
		}
		return nil, nil, err
	}

	var actor models.User
	if err := s.db.First(&actor, userID).Error; err != nil {
		return nil, nil, err
	}

	return &post, &actor, nil
}

func (s *Service) exists(model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	err := s.db.Model(model).Where(query, args...).Count(&count).Error
	return count > 0, err
}
