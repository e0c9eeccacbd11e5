package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ehsaudit/domain/findings"
)

const analysisFile = `{
  "markdown_report": "# Analysis",
  "action_register_json": [
    {"id": "F-1", "finding_title": {"vi": "Dây điện hở", "en": "Exposed wiring"}, "likelihood": 3, "severity": 5},
    {"id": "F-2", "finding_title": {"vi": "Thiếu biển báo", "en": "Missing sign"}, "likelihood": 2, "severity": 2}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := RootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCommand_WritesDocuments(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	input := writeFile(t, dir, "analysis.json", analysisFile)
	outDir := filepath.Join(dir, "out")

	// Act
	out, err := execute(t, "render", input, "-o", outDir, "-f", "html,json", "--site", "Plant A", "--date", "2024-05-01")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Register: 2 findings, 2 open, 0 overdue")

	htmlFiles, _ := filepath.Glob(filepath.Join(outDir, "ehs-register-2024-05-01-*.html"))
	require.Len(t, htmlFiles, 1)
	html, err := os.ReadFile(htmlFiles[0])
	require.NoError(t, err)
	assert.Contains(t, string(html), "Exposed wiring")
	assert.Contains(t, string(html), "Plant A")

	jsonFiles, _ := filepath.Glob(filepath.Join(outDir, "*.json"))
	require.Len(t, jsonFiles, 1)
	body, err := os.ReadFile(jsonFiles[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), `"risk_score": 15`)
}

func TestRenderCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "analysis.json", analysisFile)
	broken := writeFile(t, dir, "broken.json", `{"action_register_json": [{"likelihood": 2}]}`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown format", []string{"render", input, "-f", "pdf"}, "unknown document format"},
		{"bad date", []string{"render", input, "--date", "01/05/2024"}, "invalid date"},
		{"bad language", []string{"render", input, "--lang", "fr"}, "unknown language mode"},
		{"missing file", []string{"render", filepath.Join(dir, "nope.json")}, "failed to read analysis file"},
		{"analysis without ids", []string{"render", broken, "-o", filepath.Join(dir, "out")}, "has no id"},
		{"no arguments", []string{"render"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	register := writeFile(t, dir, "register.json", `[
  {"id": "F-1", "likelihood": 5, "severity": 4, "status": "Open", "verification_result": "Pending"},
  {"id": "F-2", "likelihood": 1, "severity": 1, "status": "Rejected", "verification_result": "Pending"}
]`)
	duplicates := writeFile(t, dir, "dupes.json", `[
  {"id": "F-1", "likelihood": 1, "severity": 1, "status": "Open", "verification_result": "Pending"},
  {"id": "F-1", "likelihood": 1, "severity": 1, "status": "Open", "verification_result": "Pending"}
]`)
	envelope := writeFile(t, dir, "analysis.json", analysisFile)

	t.Run("strict register", func(t *testing.T) {
		out, err := execute(t, "validate", register)

		require.NoError(t, err)
		assert.Contains(t, out, "is a valid register with 2 findings")
		assert.Contains(t, out, "Critical  1")
		assert.Contains(t, out, "Low       1")
	})

	t.Run("analysis response", func(t *testing.T) {
		out, err := execute(t, "validate", envelope)

		require.NoError(t, err)
		assert.Contains(t, out, "is a valid analysis response with 2 findings")
	})

	t.Run("duplicate ids", func(t *testing.T) {
		_, err := execute(t, "validate", duplicates)

		assert.ErrorIs(t, err, findings.ErrDuplicateFinding)
	})

	t.Run("analysis flag skips the strict decoder", func(t *testing.T) {
		out, err := execute(t, "validate", "--analysis", register)

		require.NoError(t, err)
		assert.True(t, strings.Contains(out, "valid analysis response"))
	})
}
