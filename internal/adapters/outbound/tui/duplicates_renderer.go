package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/layerlint/internal/domain"
)

const duplicateMaxOccurrences = 5

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	valueStyle         = lipgloss.NewStyle().Foreground(warning)
)

// RenderDuplicates renders the corpus-wide duplicate literal report,
// grouped by literal kind.
func RenderDuplicates(summary domain.DuplicateSummary) string {
	var b strings.Builder

	st := summary.Stats
	title := headerStyle.Render("Duplicate Literals")
	stats := dimStyle.Render(fmt.Sprintf("%d literals  ·  %d repeated  ·  %.1f%%",
		st.Total, st.DuplicateCount, st.DuplicatePercentage))
	b.WriteString(boxStyle.Render(title + "\n\n" + stats))
	b.WriteString("\n")

	if len(summary.Entries) == 0 {
		b.WriteString("\n  " + passStyle.Render("No literal appears in more than one place.") + "\n\n")
		return b.String()
	}

	for _, kind := range []domain.HardcodedKind{
		domain.HardcodedString,
		domain.HardcodedNumber,
		domain.HardcodedBoolean,
		domain.HardcodedConfigObject,
	} {
		var entries []domain.DuplicateEntry
		for _, e := range summary.Entries {
			if e.Kind == kind {
				entries = append(entries, e)
			}
		}
		renderDuplicateSection(&b, string(kind), entries)
	}

	b.WriteString("\n")
	b.WriteString("  " + hintStyle.Render("Extract repeated literals into a shared constant or config module."))
	b.WriteString("\n")
	return b.String()
}

func renderDuplicateSection(b *strings.Builder, title string, entries []domain.DuplicateEntry) {
	if len(entries) == 0 {
		return
	}

	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n",
		sectionHeaderStyle.Render(title),
		dimStyle.Render(fmt.Sprintf("(%d)", len(entries))),
	)

	for _, e := range entries {
		fmt.Fprintf(b, "    %s %s  %s\n",
			warnStyle.Render("●"),
			valueStyle.Render(truncateOrPad(e.Value, 40)),
			dimStyle.Render(fmt.Sprintf("%d× in %d files", e.Count(), len(e.Files()))),
		)
		shown := min(len(e.Occurrences), duplicateMaxOccurrences)
		for _, o := range e.Occurrences[:shown] {
			fmt.Fprintf(b, "        %s\n", fileStyle.Render(fmt.Sprintf("%s:%d", o.File, o.Line)))
		}
		if remaining := len(e.Occurrences) - shown; remaining > 0 {
			b.WriteString("        " + faintStyle.Render(fmt.Sprintf("(%d more)", remaining)) + "\n")
		}
	}
}
