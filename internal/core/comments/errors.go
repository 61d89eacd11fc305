package comments

import "errors"

var (
	// ErrCommentNotFound indicates the requested comment doesn't exist
	ErrCommentNotFound = errors.New("comment not found")

	// ErrPostNotFound indicates the target post doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrParentNotFound indicates the parent comment doesn't exist or
	// belongs to a different post
	ErrParentNotFound = errors.New("parent comment not found on this post")

	// ErrContentEmpty indicates comment content is empty after trimming
	ErrContentEmpty = errors.New("comment content is required")

	// ErrContentTooLong indicates comment content exceeds the length limit
	ErrContentTooLong = errors.New("comment content exceeds 5000 characters")

	// ErrPostNotPublished indicates comments are not open on the post yet
	ErrPostNotPublished = errors.New("comments are only allowed on published posts")

	// ErrNotAuthorized indicates the user is not authorized to perform this action
	ErrNotAuthorized = errors.New("not authorized")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrParentNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrContentEmpty) ||
		errors.Is(err, ErrContentTooLong)
}

// IsForbidden checks if an error should be answered with 403
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotAuthorized) ||
		errors.Is(err, ErrPostNotPublished)
}
