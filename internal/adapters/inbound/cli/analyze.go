package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/layerlint/internal/adapters/outbound/tui"
	"github.com/openkraft/layerlint/internal/application"
	"github.com/openkraft/layerlint/internal/domain"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		jsonOutput  bool
		ciMode      bool
		failOn      string
		workers     int
		changed     bool
		noCache     bool
		showHistory bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a project for architecture violations",
		Long:  "Scan a TypeScript/JavaScript project and report every layering, boundary, framework, repository, naming and hardcoded-value violation.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}
			if failOn != "" && domain.SeverityRank(failOn) == 0 {
				return fmt.Errorf("unknown severity %q for --fail-on (valid: error, warning, info)", failOn)
			}

			svc := newAnalyzeService()

			if showHistory {
				entries, err := svc.History(absPath)
				if err != nil {
					return fmt.Errorf("loading history: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
				return nil
			}

			report, err := svc.Analyze(cmd.Context(), absPath, application.AnalyzeOptions{
				Workers:       workers,
				ChangedOnly:   changed,
				NoCache:       noCache,
				RecordHistory: true,
			})
			if report == nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if jsonOutput {
				if encErr := renderJSON(cmd, report); encErr != nil {
					return encErr
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			}
			if err != nil {
				return fmt.Errorf("analysis interrupted: %w", err)
			}

			if ciMode {
				threshold := failOn
				if threshold == "" {
					cfg, cfgErr := svc.Config(absPath)
					if cfgErr != nil {
						return fmt.Errorf("loading config: %w", cfgErr)
					}
					threshold = cfg.EffectiveFailOn()
				}
				if report.Summary.ExceedsThreshold(threshold) {
					return &thresholdError{threshold: threshold, count: countAtOrAbove(report.Summary, threshold)}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output report as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if any violation reaches --fail-on")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Minimum severity that fails CI mode (error, warning, info); defaults to the config")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers (0 uses the config, then the CPU count)")
	cmd.Flags().BoolVar(&changed, "changed", false, "Only analyze files git reports as changed")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Ignore and do not update the result cache")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Show run history instead of analyzing")

	return cmd
}

// thresholdError is returned in CI mode when violations reach the
// configured severity.
type thresholdError struct {
	threshold string
	count     int
}

func (e *thresholdError) Error() string {
	return fmt.Sprintf("%d violations at or above %q severity", e.count, e.threshold)
}

// IsThresholdError reports whether err is a CI threshold failure.
func IsThresholdError(err error) bool {
	var te *thresholdError
	return errors.As(err, &te)
}

func countAtOrAbove(s domain.Summary, threshold string) int {
	switch domain.SeverityRank(threshold) {
	case 3:
		return s.Errors
	case 2:
		return s.Errors + s.Warnings
	default:
		return s.Total
	}
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
