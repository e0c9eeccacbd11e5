package contracts

import (
	"errors"

	"ehsaudit/domain/findings"
)

// Common errors for domain contracts
var (
	// ErrFindingNotFound occurs when a request references a finding id that is not in the register
	ErrFindingNotFound = findings.ErrFindingNotFound

	// ErrSessionNotFound occurs when a review session id is unknown or has expired
	ErrSessionNotFound = errors.New("review session not found")

	// ErrExportNotFound occurs when an archived export id is unknown
	ErrExportNotFound = errors.New("export not found")

	// ErrUpstreamAnalysis occurs when the analysis collaborator returns a payload that cannot seed a register
	ErrUpstreamAnalysis = errors.New("upstream analysis failure")

	// ErrUnknownFormat occurs when a document format is not supported
	ErrUnknownFormat = errors.New("unknown document format")

	// ErrUnknownSink occurs when an export names a sink that is not configured
	ErrUnknownSink = errors.New("unknown export sink")
)
