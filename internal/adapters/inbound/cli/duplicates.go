package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/layerlint/internal/adapters/outbound/tui"
	"github.com/openkraft/layerlint/internal/application"
)

func newDuplicatesCmd() *cobra.Command {
	var (
		jsonOutput bool
		minCount   int
	)

	cmd := &cobra.Command{
		Use:   "duplicates [path]",
		Short: "List literals repeated across the project",
		Long:  "Analyze the project and report every hardcoded literal that appears in more than one place, with corpus-wide statistics.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}

			report, err := newAnalyzeService().Analyze(cmd.Context(), absPath, application.AnalyzeOptions{})
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			summary := report.Duplicates
			if minCount > 2 {
				kept := summary.Entries[:0]
				for _, e := range summary.Entries {
					if e.Count() >= minCount {
						kept = append(kept, e)
					}
				}
				summary.Entries = kept
			}

			if jsonOutput {
				return renderJSON(cmd, summary)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderDuplicates(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output duplicates as JSON")
	cmd.Flags().IntVar(&minCount, "min", 2, "Only list literals seen at least this many times")

	return cmd
}
