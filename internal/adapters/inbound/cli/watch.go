package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/openkraft/layerlint/internal/adapters/outbound/tui"
	"github.com/openkraft/layerlint/internal/adapters/outbound/watcher"
	"github.com/openkraft/layerlint/internal/application"
	"github.com/openkraft/layerlint/internal/domain"
)

func newWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-analyze files as they change",
		Long:  "Run a full analysis, then watch the project and re-analyze changed source files after a short debounce.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			svc := newAnalyzeService()
			cfg, err := svc.Config(absPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			report, err := svc.Analyze(ctx, absPath, application.AnalyzeOptions{})
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("analysis failed: %w", err)
			}
			fmt.Fprint(out, tui.RenderReport(report))

			w, err := watcher.New(absPath, cfg.Extensions, debounce, slog.Default())
			if err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			defer w.Close()
			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			fmt.Fprintln(out, "Watching for changes. Press Ctrl+C to stop.")

			for batch := range w.Batches() {
				r, err := svc.Analyze(ctx, absPath, application.AnalyzeOptions{Files: batch})
				if err != nil {
					if ctx.Err() != nil {
						break
					}
					slog.Warn("re-analysis failed", "error", err)
					continue
				}
				renderBatch(cmd, absPath, batch, r)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Delay before changed files are re-analyzed")

	return cmd
}

func renderBatch(cmd *cobra.Command, root string, batch []string, r *domain.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n── %s  %d changed ──\n", time.Now().Format("15:04:05"), len(batch))

	byPath := make(map[string]domain.FileReport, len(r.Files))
	for _, f := range r.Files {
		byPath[f.Path] = f
	}
	for _, p := range batch {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(p))); err != nil {
			continue
		}
		f, ok := byPath[p]
		if !ok {
			f = domain.FileReport{Path: p}
		}
		fmt.Fprint(out, tui.RenderFile(f))
	}
	for _, e := range r.Errors {
		fmt.Fprintf(out, "  %s: %s (%s)\n", e.Path, e.Message, e.Stage)
	}
}
