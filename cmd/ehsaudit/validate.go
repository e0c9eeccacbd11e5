package main

import (
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"ehsaudit/domain/findings"
	"ehsaudit/infrastructure/analysis"
	"ehsaudit/infrastructure/serialization"
	"ehsaudit/logging"
)

func validateCommand() *cobra.Command {
	var analysisOnly bool

	cmd := &cobra.Command{
		Use:   "validate [register.json]",
		Short: "Check a register export or an analysis response",
		Long: `Validate a register JSON export, or an analysis response when the file
is not a strict register, and print its summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], analysisOnly, clockwork.NewRealClock())
		},
	}

	cmd.Flags().BoolVar(&analysisOnly, "analysis", false, "Treat the file as an analysis response")

	return cmd
}

func runValidate(cmd *cobra.Command, path string, analysisOnly bool, clock clockwork.Clock) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	items, kind, err := decodeRegisterFile(data, analysisOnly)
	if err != nil {
		return err
	}

	register := findings.NewRegister()
	if err := register.InsertMany(items, clock.Now()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	summary := findings.Summarize(register.Snapshot())
	fmt.Fprintf(out, "%s is a valid %s with %d findings\n", path, kind, summary.Total)
	for _, level := range findings.RiskLevels() {
		fmt.Fprintf(out, "  %-9s %d\n", level, summary.ByLevel[level])
	}
	fmt.Fprintf(out, "  %-9s %d\n", "Overdue", summary.Overdue)
	return nil
}

// decodeRegisterFile reads a strict register export first and falls back to
// the lenient analysis intake.
func decodeRegisterFile(data []byte, analysisOnly bool) ([]findings.Finding, string, error) {
	if !analysisOnly {
		items, err := serialization.NewRegisterSerializer().DeserializeFindings(data)
		if err == nil {
			return items, "register", nil
		}
		logging.Default().Debug("Not a strict register, trying analysis intake", "error", err)
	}

	result, err := analysis.NewIntake(nil).Parse(data)
	if err != nil {
		return nil, "", err
	}
	return result.Findings, "analysis response", nil
}
