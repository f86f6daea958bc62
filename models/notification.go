package models

// NotificationVariant controls how a notification is rendered.
type NotificationVariant string

const (
	NotificationDefault     NotificationVariant = "default"
	NotificationDestructive NotificationVariant = "destructive"
)

// Notification is a user-visible toast.
type Notification struct {
	Title       string
	Description string
	Variant     NotificationVariant
}
