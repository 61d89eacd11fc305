package comments

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/core/notifications"
	"github.com/inkstream/blog-backend/internal/models"
)

// Service implements the comment tree: bounded-depth reply nesting, content
// validation and read-time like counts.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrContentEmpty
	}
	if len([]rune(content)) > models.MaxCommentLength {
		return "", ErrContentTooLong
	}
	return content, nil
}

// Add creates a comment or reply on a published post. The returned events
// carry the comment/comment_reply notification for the dispatcher; the
// comment write itself never depends on them.
func (s *Service) Add(postID, authorID int, content string, parentID *int) (*CreatedComment, []notifications.Event, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, nil, err
	}

	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPostNotFound
		}
		return nil, nil, err
	}
	if !post.IsPublished() {
		return nil, nil, ErrPostNotPublished
	}

	var parent *models.Comment
	if parentID != nil {
		var p models.Comment
		if err := s.db.First(&p, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrParentNotFound
			}
			return nil, nil, err
		}
		// A parent on another post would silently stitch two threads together.
		if p.PostID != postID {
			return nil, nil, ErrParentNotFound
		}
		parent = &p
	}

	var author models.User
	if err := s.db.First(&author, authorID).Error; err != nil {
		return nil, nil, err
	}

	comment := models.Comment{
		Content:  content,
		AuthorID: authorID,
		PostID:   postID,
		ParentID: parentID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, nil, err
	}

	count, err := s.topLevelCount(postID)
	if err != nil {
		return nil, nil, err
	}

	var events []notifications.Event
	if parent == nil {
		events = notifications.ForRecipient(
			models.NotificationTypeComment, post.AuthorID, authorID,
			&post.ID, &comment.ID, notifications.CommentMessage(&author, post.Title))
	} else {
		// Replies notify the parent's author, not the post author.
		events = notifications.ForRecipient(
			models.NotificationTypeCommentReply, parent.AuthorID, authorID,
			&post.ID, &comment.ID, notifications.ReplyMessage(&author))
	}

	view := CommentView{
		ID:        comment.ID,
		Content:   comment.Content,
		PostID:    comment.PostID,
		ParentID:  comment.ParentID,
		Author:    authorSummary(author),
		Replies:   []CommentView{},
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	return &CreatedComment{Comment: view, CommentsCount: count}, events, nil
}

// List returns one page of top-level comments, newest first, each carrying up
// to two levels of replies in chronological order. viewerID 0 means
// anonymous; otherwise every visible comment is annotated with the viewer's
// like state from a single batch lookup.
func (s *Service) List(postID, viewerID, page, limit int) (*PageResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	total, err := s.topLevelCount(postID)
	if err != nil {
		return nil, err
	}

	var topLevel []models.Comment
	err = s.db.Where("post_id = ? AND parent_id IS NULL", postID).
		Preload("User").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&topLevel).Error
	if err != nil {
		return nil, err
	}

	replies, err := s.loadReplies(commentIDs(topLevel))
	if err != nil {
		return nil, err
	}
	deepReplies, err := s.loadReplies(commentIDs(replies))
	if err != nil {
		return nil, err
	}

	// One batch like lookup across everything visible in this page.
	visible := append(commentIDs(topLevel), commentIDs(replies)...)
	visible = append(visible, commentIDs(deepReplies)...)
	likeCounts, likedByViewer, err := s.likeState(visible, viewerID)
	if err != nil {
		return nil, err
	}

	toView := func(c models.Comment) CommentView {
		return CommentView{
			ID:         c.ID,
			Content:    c.Content,
			PostID:     c.PostID,
			ParentID:   c.ParentID,
			Author:     authorSummary(c.User),
			LikesCount: likeCounts[c.ID],
			Liked:      likedByViewer[c.ID],
			Replies:    []CommentView{},
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
		}
	}

	// Deepest level first, so parents pick up their children as they build.
	byParent := make(map[int][]CommentView)
	for _, c := range deepReplies {
		byParent[*c.ParentID] = append(byParent[*c.ParentID], toView(c))
	}
	for _, c := range replies {
		v := toView(c)
		if children, ok := byParent[c.ID]; ok {
			v.Replies = children
		}
		byParent[*c.ParentID] = append(byParent[*c.ParentID], v)
	}

	result := make([]CommentView, 0, len(topLevel))
	for _, c := range topLevel {
		v := toView(c)
		if children, ok := byParent[c.ID]; ok {
			v.Replies = children
		}
		result = append(result, v)
	}

	return &PageResult{
		Comments: result,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// Update rewrites a comment's content. Only the author or an admin may edit.
func (s *Service) Update(commentID, actorID int, content string) (*CommentView, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	comment, actor, err := s.loadForWrite(commentID, actorID)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.db.Save(comment).Error; err != nil {
		return nil, err
	}

	likeCounts, liked, err := s.likeState([]int{comment.ID}, actor.ID)
	if err != nil {
		return nil, err
	}

	return &CommentView{
		ID:         comment.ID,
		Content:    comment.Content,
		PostID:     comment.PostID,
		ParentID:   comment.ParentID,
		Author:     authorSummary(comment.User),
		LikesCount: likeCounts[comment.ID],
		Liked:      liked[comment.ID],
		Replies:    []CommentView{},
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}, nil
}

// Delete removes a comment and its entire reply subtree along with their
// likes, then returns the post's refreshed top-level comment count.
func (s *Service) Delete(commentID, actorID int) (int64, error) {
	comment, _, err := s.loadForWrite(commentID, actorID)
	if err != nil {
		return 0, err
	}

	ids, err := s.subtreeIDs(comment.ID)
	if err != nil {
		return 0, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	})
	if err != nil {
		return 0, err
	}

	return s.topLevelCount(comment.PostID)
}

// loadForWrite fetches the comment and enforces the owner-or-admin rule
// shared by Update and Delete.
func (s *Service) loadForWrite(commentID, actorID int) (*models.Comment, *models.User, error) {
	var comment models.Comment
	if err := s.db.Preload("User").First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCommentNotFound
		}
		return nil, nil, err
	}

	var actor models.User
	if err := s.db.First(&actor, actorID).Error; err != nil {
		return nil, nil, err
	}

	if comment.AuthorID != actor.ID && !actor.IsAdmin() {
		return nil, nil, ErrNotAuthorized
	}

	return &comment, &actor, nil
}

// subtreeIDs walks the reply tree breadth-first. Serving is capped at two
// levels but storage is not, so deletion must follow arbitrary depth.
func (s *Service) subtreeIDs(rootID int) ([]int, error) {
	ids := []int{rootID}
	frontier := []int{rootID}
	for len(frontier) > 0 {
		var children []int
		err := s.db.Model(&models.Comment{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error
		if err != nil {
			return nil, err
		}
		ids = append(ids, children...)
		frontier = children
	}
	return ids, nil
}

func (s *Service) topLevelCount(postID int) (int64, error) {
	var count int64
	err := s.db.Model(&models.Comment{}).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Count(&count).Error
	return count, err
}

func (s *Service) loadReplies(parentIDs []int) ([]models.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var replies []models.Comment
	err := s.db.Where("parent_id IN ?", parentIDs).
		Preload("User").
		Order("created_at asc").
		Find(&replies).Error
	return replies, err
}

// likeState batch-loads like counts and, when viewerID is non-zero, the
// viewer's liked set for the given comment ids.
func (s *Service) likeState(ids []int, viewerID int) (map[int]int64, map[int]bool, error) {
	counts := make(map[int]int64)
	liked := make(map[int]bool)
	if len(ids) == 0 {
		return counts, liked, nil
	}

	var rows []struct {
		CommentID int
		Total     int64
	}
	err := s.db.Model(&models.CommentLike{}).
		Select("comment_id, count(*) as total").
		Where("comment_id IN ?", ids).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rows {
		counts[r.CommentID] = r.Total
	}

	if viewerID != 0 {
		var likedIDs []int
		err := s.db.Model(&models.CommentLike{}).
			Where("user_id = ? AND comment_id IN ?", viewerID, ids).
			Pluck("comment_id", &likedIDs).Error
		if err != nil {
			return nil, nil, err
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	return counts, liked, nil
}

func commentIDs(comments []models.Comment) []int {
	ids := make([]int, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	return ids
}
