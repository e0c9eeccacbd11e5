package ui

import "time"

// ToastNotificationView represents the view model for a toast notification.
type ToastNotificationView struct {
	Title     string
	Message   string
	Type      string
	Timestamp time.Time
}
