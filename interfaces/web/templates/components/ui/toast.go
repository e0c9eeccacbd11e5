package ui

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// toastClasses maps toast types to their container styles.
var toastClasses = map[string]string{
	"success": "border-green-300 bg-green-50 text-green-800",
	"warning": "border-amber-300 bg-amber-50 text-amber-800",
	"error":   "border-red-300 bg-red-50 text-red-800",
	"info":    "border-blue-300 bg-blue-50 text-blue-800",
}

func toastClass(toastType string) string {
	if class, ok := toastClasses[toastType]; ok {
		return class
	}
	return toastClasses["info"]
}

// ToastNotification renders a toast for the SSE "toast" event.
func ToastNotification(view ToastNotificationView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		parts := []string{
			`<div class="toast rounded border px-4 py-3 shadow `, templ.EscapeString(toastClass(view.Type)),
			`" role="status" data-toast-type="`, templ.EscapeString(view.Type), `"`,
		}
		parts = append(parts, `>`)
		if view.Title != "" {
			parts = append(parts, `<p class="font-semibold">`, templ.EscapeString(view.Title), `</p>`)
		}
		parts = append(parts, `<p>`, templ.EscapeString(view.Message), `</p>`)
		if !view.Timestamp.IsZero() {
			parts = append(parts, `<time class="text-xs opacity-70" datetime="`,
				templ.EscapeString(view.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00")), `">`,
				templ.EscapeString(view.Timestamp.UTC().Format("15:04")), `</time>`)
		}
		parts = append(parts, `</div>`)

		for _, part := range parts {
			if _, err := io.WriteString(w, part); err != nil {
				return err
			}
		}
		return nil
	})
}
