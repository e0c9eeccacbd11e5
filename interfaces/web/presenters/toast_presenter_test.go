package presenters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastPresenter_FormatToastNotification(t *testing.T) {
	// Arrange
	presenter := NewToastPresenter()
	presenter.now = func() time.Time { return time.Date(2024, time.May, 1, 9, 30, 0, 0, time.UTC) }

	// Act
	html, err := presenter.FormatToastNotification(`F-1 moved from Open to <Closed>`, "success")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, html, `data-toast-type="success"`)
	assert.Contains(t, html, "border-green-300")
	assert.Contains(t, html, "<p class=\"font-semibold\">Updated</p>")
	assert.Contains(t, html, "F-1 moved from Open to &lt;Closed&gt;")
	assert.Contains(t, html, `datetime="2024-05-01T09:30:00Z"`)
	assert.NotContains(t, html, "\n")
}

func TestToastPresenter_UnknownTypeFallsBackToInfo(t *testing.T) {
	html, err := NewToastPresenter().FormatToastNotification("hello", "celebration")

	require.NoError(t, err)
	assert.Contains(t, html, "border-blue-300")
	assert.NotContains(t, html, "font-semibold")
}
