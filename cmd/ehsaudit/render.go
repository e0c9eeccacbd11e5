package main

import (
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"ehsaudit/application"
	"ehsaudit/domain/contracts"
	"ehsaudit/infrastructure/analysis"
	"ehsaudit/infrastructure/sinks"
	"ehsaudit/interfaces/reports"
	"ehsaudit/logging"
)

type renderOptions struct {
	contextFlags
	outputDir string
	formats   []string
	prefix    string
}

func renderCommand() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [analysis.json]",
		Short: "Render an analysis response as register documents",
		Long: `Seed a register from a saved analysis response and write it as
HTML, Markdown, JSON or plain text documents.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	opts.contextFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "exports", "Path to output directory")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", []string{"html", "markdown"}, "Output formats: html, markdown, json, text")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "ehs-register", "Document file name prefix")

	return cmd
}

func runRender(cmd *cobra.Command, path string, opts *renderOptions) error {
	formats := make([]contracts.DocumentFormat, 0, len(opts.formats))
	for _, raw := range opts.formats {
		format, err := contracts.ParseDocumentFormat(raw)
		if err != nil {
			return err
		}
		formats = append(formats, format)
	}

	actx, err := opts.auditContext()
	if err != nil {
		return err
	}

	logger := logging.Default().WithComponent("cli")
	clock := clockwork.NewRealClock()
	sessions := application.NewSessionService(0, 0, clock, nil, nil)
	exports := application.NewExportService(
		reports.NewRenderer(),
		[]contracts.DocumentSink{sinks.NewFileSink(opts.outputDir, logger)},
		opts.prefix,
		clock,
		nil,
	)

	source := analysis.NewFileSource(path, analysis.NewIntake(logger))
	session, err := sessions.CreateSession(cmd.Context(), actx, source)
	if err != nil {
		return err
	}
	defer sessions.CloseSession(session.ID())

	out := cmd.OutOrStdout()
	summary := session.Summary()
	fmt.Fprintf(out, "Register: %d findings, %d open, %d overdue\n", summary.Total, summary.Open(), summary.Overdue)

	for _, format := range formats {
		receipts, err := exports.Export(cmd.Context(), session, format)
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", format, err)
		}
		for _, receipt := range receipts {
			fmt.Fprintf(out, "  %-8s %s (%d bytes)\n", strings.ToUpper(string(format)), receipt.Location, receipt.Bytes)
		}
	}
	return nil
}
