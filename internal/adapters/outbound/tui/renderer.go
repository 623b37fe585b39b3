package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/layerlint/internal/domain"
)

// ── Warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	info      = lipgloss.Color("#8B949E") // soft blue-gray
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	kindNameStyle = lipgloss.NewStyle().Bold(true).Foreground(fg)
	hintStyle     = lipgloss.NewStyle().Foreground(dim).Italic(true)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats an analysis report for terminal output: a header
// box, violations grouped by file, the per-kind summary and any per-file
// errors.
func RenderReport(report *domain.Report) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("layerlint")
	subtitle := dimStyle.Render(shortenPath(report.ProjectPath))
	stats := dimStyle.Render(fmt.Sprintf("%d files analyzed", report.FilesAnalyzed))
	if report.FromCache > 0 {
		stats += dimStyle.Render(fmt.Sprintf("  ·  %d from cache", report.FromCache))
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + totalLine(report.Summary) + "\n" + stats))
	b.WriteString("\n\n")

	if report.Incomplete {
		b.WriteString("  " + warnStyle.Render("Run cancelled before every file was analyzed; results are partial.") + "\n\n")
	}

	// ── Violations by file ──
	if len(report.Files) == 0 {
		b.WriteString("  " + passStyle.Render("No violations found.") + "\n")
	}
	for _, f := range report.Files {
		renderFile(&b, f)
	}

	// ── Summary ──
	if report.Summary.Total > 0 {
		b.WriteString("  " + separatorLine + "\n\n")
		renderKindSummary(&b, report.Summary)
	}
	renderLayerEdges(&b, report)

	if report.Summary.Suppressed > 0 {
		b.WriteString("  " + skipStyle.Render(fmt.Sprintf("%d low-importance literals suppressed by layer policy", report.Summary.Suppressed)) + "\n")
	}
	if report.Duplicates.Stats.DuplicateCount > 0 {
		b.WriteString("  " + hintStyle.Render(fmt.Sprintf(
			"%d literals repeat across files. Run `layerlint duplicates` for details.",
			report.Duplicates.Stats.DuplicateCount)) + "\n")
	}

	// ── Errors ──
	if len(report.Errors) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Errors") + "  " +
			errorTagStyle.Render(fmt.Sprintf("%d files", len(report.Errors))) + "\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "    %s %s  %s\n",
				failStyle.Render("✘"),
				fileStyle.Render(e.Path),
				faintStyle.Render(e.Stage+": "+e.Message),
			)
		}
	}

	b.WriteString("\n")
	return b.String()
}

// RenderFile formats the violations of a single file.
func RenderFile(f domain.FileReport) string {
	var b strings.Builder
	if len(f.Violations) == 0 {
		fmt.Fprintf(&b, "  %s %s\n", passStyle.Render("✔"), fileStyle.Render(f.Path))
		return b.String()
	}
	renderFile(&b, f)
	return b.String()
}

func totalLine(s domain.Summary) string {
	if s.Total == 0 {
		return passStyle.Bold(true).Render("clean")
	}
	var parts []string
	if s.Errors > 0 {
		parts = append(parts, errorTagStyle.Render(fmt.Sprintf("%d errors", s.Errors)))
	}
	if s.Warnings > 0 {
		parts = append(parts, warnTagStyle.Render(fmt.Sprintf("%d warnings", s.Warnings)))
	}
	if s.Infos > 0 {
		parts = append(parts, infoTagStyle.Render(fmt.Sprintf("%d info", s.Infos)))
	}
	return strings.Join(parts, "  ")
}

func renderFile(b *strings.Builder, f domain.FileReport) {
	fmt.Fprintf(b, "  %s %s\n",
		titleStyle.Render(f.Path),
		faintStyle.Render(f.Layer.String()),
	)
	for _, v := range f.Violations {
		renderViolation(b, v)
	}
	b.WriteString("\n")
}

func renderViolation(b *strings.Builder, v domain.Violation) {
	c := v.Common()
	loc := fmt.Sprintf("%d", c.Line)
	if c.Column > 0 {
		loc = fmt.Sprintf("%d:%d", c.Line, c.Column)
	}
	fmt.Fprintf(b, "    %s %s %s  %s\n",
		severityTag(c.Severity),
		dimStyle.Render(padRight(loc, 7)),
		c.Message,
		faintStyle.Render(string(c.Type)),
	)
	if c.Suggestion != "" {
		fmt.Fprintf(b, "          %s\n", hintStyle.Render(c.Suggestion))
	}
}

func renderKindSummary(b *strings.Builder, s domain.Summary) {
	b.WriteString("  " + titleStyle.Render("Summary") + "\n")
	for _, kind := range domain.ValidViolationKinds {
		n := s.ByKind[kind]
		if n == 0 {
			continue
		}
		fmt.Fprintf(b, "    %s %s\n", kindNameStyle.Render(padRight(string(kind), 24)), countStyle(n).Render(fmt.Sprintf("%d", n)))
	}

	layers := make([]string, 0, len(s.ByLayer))
	for l := range s.ByLayer {
		layers = append(layers, l)
	}
	sort.Strings(layers)
	if len(layers) > 0 {
		parts := make([]string, 0, len(layers))
		for _, l := range layers {
			parts = append(parts, fmt.Sprintf("%s %d", l, s.ByLayer[l]))
		}
		b.WriteString("    " + dimStyle.Render("by layer: "+strings.Join(parts, "  ·  ")) + "\n")
	}
	b.WriteString("\n")
}

func countStyle(n int) lipgloss.Style {
	if n == 0 {
		return passStyle
	}
	return warnStyle
}

func severityTag(severity string) string {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return ".../" + strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats run history for terminal output.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}

		totalStyled := countStyle(e.Total).Render(fmt.Sprintf("%d violations", e.Total))
		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(date),
			faintStyle.Render(hash),
			totalStyled,
			dimStyle.Render(fmt.Sprintf("%d errors · %d files", e.Errors, e.Files)),
		)

		if i > 0 {
			diff := e.Total - entries[i-1].Total
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
