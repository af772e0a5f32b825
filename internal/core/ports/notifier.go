package ports

// NotificationLevel distinguishes success toasts from failure toasts.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

// Notification is one user-facing message emitted by a store.
type Notification struct {
	Level   NotificationLevel
	Message string
}

// Notifier delivers user-facing notifications. Implementations must not block
// for long: stores call Notify while handling an operation result.
type Notifier interface {
	Notify(n Notification)
}

// Success is a shorthand for a success notification.
func Success(msg string) Notification {
	return Notification{Level: LevelSuccess, Message: msg}
}

// Failure is a shorthand for an error notification.
func Failure(msg string) Notification {
	return Notification{Level: LevelError, Message: msg}
}
