package presenters

import (
	"context"
	"strings"
	"time"

	"ehsaudit/interfaces/web/templates/components/ui"
)

// ToastPresenter handles toast notification view logic and formatting.
type ToastPresenter struct {
	now func() time.Time
}

// NewToastPresenter creates a new toast presenter.
func NewToastPresenter() *ToastPresenter {
	return &ToastPresenter{now: time.Now}
}

// FormatToastNotification renders a toast notification using the template system.
func (p *ToastPresenter) FormatToastNotification(message, toastType string) (string, error) {
	return p.render(ui.ToastNotificationView{
		Title:     toastTitle(toastType),
		Message:   message,
		Type:      toastType,
		Timestamp: p.now(),
	})
}

func (p *ToastPresenter) render(view ui.ToastNotificationView) (string, error) {
	var buf strings.Builder
	if err := ui.ToastNotification(view).Render(context.Background(), &buf); err != nil {
		return "", err
	}

	// SSE data lines cannot contain raw newlines
	return strings.ReplaceAll(buf.String(), "\n", " "), nil
}

func toastTitle(toastType string) string {
	switch toastType {
	case "success":
		return "Updated"
	case "warning":
		return "Transition blocked"
	case "error":
		return "Error"
	}
	return ""
}
