package serialization

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/findings"
)

// RegisterSerializer handles JSON serialization of finding registers, audit
// contexts and partial updates.
type RegisterSerializer struct{}

// NewRegisterSerializer creates a new register serializer.
func NewRegisterSerializer() *RegisterSerializer {
	return &RegisterSerializer{}
}

// SerializeFindings converts findings to a pretty-printed JSON array. Keys keep
// the register field order and HTML characters are left unescaped. A nil
// slice serializes as an empty array.
func (s *RegisterSerializer) SerializeFindings(items []findings.Finding) ([]byte, error) {
	if items == nil {
		items = []findings.Finding{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("failed to marshal findings: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DeserializeFindings parses a register export. Unknown keys are rejected.
func (s *RegisterSerializer) DeserializeFindings(data []byte) ([]findings.Finding, error) {
	var items []findings.Finding
	if err := decodeStrict(bytes.NewReader(data), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal findings: %w", err)
	}
	if items == nil {
		items = []findings.Finding{}
	}
	return items, nil
}

// DeserializeContext parses an audit context and applies its defaults.
func (s *RegisterSerializer) DeserializeContext(data []byte) (audit.AuditContext, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return audit.AuditContext{LanguageMode: audit.LanguageBilingual}, nil
	}

	var actx audit.AuditContext
	if err := decodeStrict(bytes.NewReader(data), &actx); err != nil {
		return audit.AuditContext{}, fmt.Errorf("%w: %v", audit.ErrInvalidContext, err)
	}
	if err := actx.Validate(); err != nil {
		return audit.AuditContext{}, err
	}
	return actx, nil
}

// DecodePatch reads a partial finding update. Unknown or non-editable keys
// such as status or risk_score are rejected.
func (s *RegisterSerializer) DecodePatch(r io.Reader) (findings.Patch, error) {
	var patch findings.Patch
	if err := decodeStrict(r, &patch); err != nil {
		return findings.Patch{}, fmt.Errorf("%w: %v", findings.ErrInvalidPatch, err)
	}
	if err := patch.Validate(); err != nil {
		return findings.Patch{}, err
	}
	return patch, nil
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}
