package model

// Notification types pushed by the backend.
const (
	NotificationAssignment = "ASSIGNMENT"
	NotificationReminder   = "REMINDER"
	NotificationSystem     = "SYSTEM"
)

// Notification is a single inbox entry, fetched over REST or pushed over the
// websocket channel (same JSON shape on both paths).
type Notification struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Message          string `json:"message"`
	NotificationType string `json:"notification_type"`
	Link             string `json:"link"`
	IsRead           bool   `json:"is_read"`
	CreatedAtHuman   string `json:"created_at_human"`
}
