package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected DocumentFormat
	}{
		{"html", FormatHTML},
		{"HTM", FormatHTML},
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"json", FormatJSON},
		{"txt", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseDocumentFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}

	_, err := ParseDocumentFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDocument_FileName(t *testing.T) {
	doc := Document{Format: FormatMarkdown, Name: "ehs-register-2024-05-01"}

	assert.Equal(t, "ehs-register-2024-05-01.md", doc.FileName())
	assert.Equal(t, "text/markdown; charset=utf-8", doc.Format.ContentType())
}
