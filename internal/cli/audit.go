package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimaudit/internal/app"
	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/pipeline"
)

var (
	timeout     time.Duration
	writeReport bool
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <file>",
	Short: "Run the model-driven audit pipeline on a document",
	Long: `Audit runs the full language-model pipeline on one PDF or text file:
- Split the document into overlapping chunks
- Extract and classify verifiable claims
- Retrieve evidence from the local corpus, then the web
- Evaluate each claim against its evidence

The report is written to audit_report_<name>.json in the report directory.
Audit requires a reachable model; use 'analyze' for the pattern fallback.

Example:
  claimaudit audit annual_report.pdf
  claimaudit audit annual_report.pdf --report-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a document and print the JSON report",
	Long: `Analyze audits one document the way the API does: with the language
model when it is reachable, with pattern matching otherwise. Every claim
is enhanced with web evidence and a trust score.

Example:
  claimaudit analyze sustainability.txt
  claimaudit analyze annual_report.pdf --write`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(analyzeCmd)

	for _, cmd := range []*cobra.Command{auditCmd, analyzeCmd} {
		cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "overall run timeout")
	}
	analyzeCmd.Flags().BoolVar(&writeReport, "write", false, "also write the report file")
}

func newApp(ctx context.Context) (*app.App, error) {
	cfg, logger, err := setup()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger)
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Logger.Sync() }()

	if a.Pipeline == nil {
		return fmt.Errorf("audit needs a reachable LLM provider (analysis mode is %s); try 'claimaudit analyze'", a.Mode)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Auditing: %s\n", args[0])
	}

	report, err := a.Pipeline.RunFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	printSummary(report)
	fmt.Fprintf(os.Stderr, "✓ Report: %s\n", a.Renderer.ReportPath(report.Summary.DocumentName))
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Logger.Sync() }()

	report, err := a.Analysis.AnalyzeFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	data, err := pipeline.EncodeReport(report)
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if writeReport {
		path, err := a.Renderer.WriteReport(report)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Report: %s\n", path)
	}
	if verbose {
		printSummary(report)
	}
	return nil
}

func printSummary(report *model.AuditReport) {
	s := report.Summary
	fmt.Fprintf(os.Stderr, "✓ %s: %d claims in %.2fs", s.DocumentName, s.TotalClaims, s.ProcessingTimeSeconds)
	if s.AnalysisMode != "" {
		fmt.Fprintf(os.Stderr, " (%s)", s.AnalysisMode)
	}
	fmt.Fprintln(os.Stderr)
}
