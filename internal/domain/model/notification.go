package model

import "time"

// Notification is a transient message shown to the user after an action.
// Timeout is how long it stays queued before it is removed automatically.
type Notification struct {
	ID      int              `json:"id"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	Timeout time.Duration    `json:"timeout"`
}
