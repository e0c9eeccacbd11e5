package repositories

import "fmt"

// ErrChecksumMismatch occurs when an archived body no longer matches the digest recorded at save time
type ErrChecksumMismatch struct {
	ExportID string
	Expected string
	Actual   string
}

func (e ErrChecksumMismatch) Error() string {
	return fmt.Sprintf("export %s checksum mismatch: recorded %s, computed %s", e.ExportID, e.Expected, e.Actual)
}
