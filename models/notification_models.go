package models

// NotificationType is the severity of a user-facing notification
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyWarning NotificationType = "warning"
	NotifyInfo    NotificationType = "info"
)

// DefaultLoadingMessage is shown when a loading indicator has no message
const DefaultLoadingMessage = "Memuat..."

var alertClasses = map[NotificationType]string{
	NotifySuccess: "alert-success",
	NotifyError:   "alert-danger",
	NotifyWarning: "alert-warning",
	NotifyInfo:    "alert-info",
}

// ParseNotificationType maps free-form input to a known type, defaulting to info
func ParseNotificationType(s string) NotificationType {
	t := NotificationType(s)
	if _, ok := alertClasses[t]; ok {
		return t
	}
	return NotifyInfo
}

// AlertClass returns the alert style class for the notification type
func (t NotificationType) AlertClass() string {
	if class, ok := alertClasses[t]; ok {
		return class
	}
	return alertClasses[NotifyInfo]
}
