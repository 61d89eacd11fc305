package interactions

import "errors"

var (
	// ErrPostNotFound indicates the target post doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrCommentNotFound indicates the target comment doesn't exist
	ErrCommentNotFound = errors.New("comment not found")

	// ErrUserNotFound indicates the target user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrCommentLikeNotFound indicates there is no like to remove on the comment
	ErrCommentLikeNotFound = errors.New("comment like not found")

	// ErrAlreadyLiked indicates the user already liked the post
	ErrAlreadyLiked = errors.New("post already liked")

	// ErrNotLiked indicates the user hasn't liked the post yet
	ErrNotLiked = errors.New("post not liked yet")

	// ErrAlreadySaved indicates the user already saved the post
	ErrAlreadySaved = errors.New("post already saved")

	// ErrNotSaved indicates the user hasn't saved the post yet
	ErrNotSaved = errors.New("post not saved yet")

	// ErrAlreadyFollowing indicates a follow row already exists for the pair
	ErrAlreadyFollowing = errors.New("already following this user")

	// ErrNotFollowing indicates there is no follow row for the pair
	ErrNotFollowing = errors.New("not following this user yet")

	// ErrSelfFollow indicates the actor tried to follow themselves
	ErrSelfFollow = errors.New("you cannot follow yourself")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCommentLikeNotFound)
}

// IsConflict checks if an error is a duplicate/missing state transition
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyLiked) ||
		errors.Is(err, ErrNotLiked) ||
		errors.Is(err, ErrAlreadySaved) ||
		errors.Is(err, ErrNotSaved) ||
		errors.Is(err, ErrAlreadyFollowing) ||
		errors.Is(err, ErrNotFollowing)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrSelfFollow)
}
