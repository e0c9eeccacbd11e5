package contracts

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DocumentFormat identifies a rendered register document.
type DocumentFormat string

const (
	FormatHTML     DocumentFormat = "html"
	FormatMarkdown DocumentFormat = "markdown"
	FormatJSON     DocumentFormat = "json"
	FormatText     DocumentFormat = "text"
)

// DocumentFormats lists the supported formats.
func DocumentFormats() []DocumentFormat {
	return []DocumentFormat{FormatHTML, FormatMarkdown, FormatJSON, FormatText}
}

// ParseDocumentFormat converts a raw value into a DocumentFormat. Common file
// extensions are accepted as aliases.
func ParseDocumentFormat(raw string) (DocumentFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "html", "htm":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

// Extension returns the file extension for the format, without the dot.
func (f DocumentFormat) Extension() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// ContentType returns the MIME type for the format.
func (f DocumentFormat) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Document is a rendered register ready for delivery.
type Document struct {
	Format     DocumentFormat
	SessionID  string
	Name       string
	Body       []byte
	RenderedAt time.Time
}

// FileName returns the suggested file name for the document.
func (d Document) FileName() string {
	return d.Name + "." + d.Format.Extension()
}

// ExportReceipt describes where a document was delivered.
type ExportReceipt struct {
	Sink     string `json:"sink"`
	Location string `json:"location"`
	Bytes    int    `json:"bytes"`
}

// DocumentSink delivers rendered documents to an external destination:
// a print/PDF facility, a file store or an archive.
type DocumentSink interface {
	Name() string
	Deliver(ctx context.Context, doc Document) (ExportReceipt, error)
}
