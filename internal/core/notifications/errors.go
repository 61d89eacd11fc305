package notifications

import "errors"

var (
	// ErrNotificationNotFound indicates the notification doesn't exist for
	// the requesting user. Lookups are pre-scoped to the owner, so another
	// user's notification id reports not-found rather than forbidden.
	ErrNotificationNotFound = errors.New("notification not found")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotificationNotFound)
}
