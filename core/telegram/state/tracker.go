package state

import "context"

// Tracker maps a user id to the message id of their live view.
// Entries are last-write-wins; at most one per user.
type Tracker interface {
	// Get reports the live message id for userID, if any.
	Get(ctx context.Context, userID int64) (int, bool, error)
	// Set records messageID as the user's live message.
	Set(ctx context.Context, userID int64, messageID int) error
}
