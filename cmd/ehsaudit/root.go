package main

import (
	"github.com/spf13/cobra"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/findings"
)

// contextFlags collects the audit context shared by the subcommands.
type contextFlags struct {
	site      string
	area      string
	auditType string
	date      string
	language  string
}

// RootCommand creates and returns the root command
func RootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ehsaudit",
		Short:         "EHS photo audit register tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(renderCommand(), validateCommand())

	return rootCmd
}

func (f *contextFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.site, "site", "", "Audited site")
	cmd.Flags().StringVar(&f.area, "area", "", "Audited area")
	cmd.Flags().StringVar(&f.auditType, "audit-type", "", "Audit type, e.g. Routine")
	cmd.Flags().StringVar(&f.date, "date", "", "Audit date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.language, "lang", "l", "bilingual", "Report language: bilingual, vi or en")
}

// auditContext builds and validates the context from the flags.
func (f *contextFlags) auditContext() (audit.AuditContext, error) {
	date, err := findings.ParseDate(f.date)
	if err != nil {
		return audit.AuditContext{}, err
	}
	mode, err := audit.ParseLanguageMode(f.language)
	if err != nil {
		return audit.AuditContext{}, err
	}

	actx := audit.AuditContext{
		Site:         f.site,
		Area:         f.area,
		AuditType:    f.auditType,
		Date:         date,
		LanguageMode: mode,
	}
	return actx, actx.Validate()
}
