package findings

import "strings"

// BilingualText is a Vietnamese/English string pair. Both keys are always
// serialized, even when the active language mode leaves one side empty.
type BilingualText struct {
	VI string `json:"vi"`
	EN string `json:"en"`
}

// NewBilingualText creates a text pair.
func NewBilingualText(vi, en string) BilingualText {
	return BilingualText{VI: vi, EN: en}
}

// IsBlank reports whether both languages are empty after trimming whitespace.
func (b BilingualText) IsBlank() bool {
	return strings.TrimSpace(b.VI) == "" && strings.TrimSpace(b.EN) == ""
}

// HasText reports whether at least one language carries non-blank text.
func (b BilingualText) HasText() bool {
	return !b.IsBlank()
}
