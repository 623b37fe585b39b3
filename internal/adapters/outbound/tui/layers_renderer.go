package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openkraft/layerlint/internal/domain"
)

const edgeMaxRows = 15

type layerEdge struct {
	from, to domain.Layer
	count    int
	sample   string
}

// renderLayerEdges lists the illegal layer edges behind the report's
// dependency-direction violations, most frequent first.
func renderLayerEdges(b *strings.Builder, report *domain.Report) {
	edges := collectEdges(report)
	if len(edges) == 0 {
		return
	}

	b.WriteString("  " + titleStyle.Render("Layer Edges") + "\n")
	hdr := fmt.Sprintf("    %-16s    %-16s %5s  %s", "From", "To", "Count", "Example import")
	b.WriteString(dimStyle.Render(hdr) + "\n")
	b.WriteString("    " + faintStyle.Render(strings.Repeat("─", 60)) + "\n")

	shown := min(len(edges), edgeMaxRows)
	for _, e := range edges[:shown] {
		fmt.Fprintf(b, "    %s %s %s %s  %s\n",
			titleStyle.Render(padRight(e.from.String(), 16)),
			failStyle.Render("→"),
			padRight(" "+e.to.String(), 17),
			failStyle.Render(fmt.Sprintf("%5d", e.count)),
			faintStyle.Render(truncateOrPad(e.sample, 28)),
		)
	}
	if remaining := len(edges) - shown; remaining > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("    (%d more edges)\n", remaining)))
	}
	b.WriteString("\n")
}

func collectEdges(report *domain.Report) []layerEdge {
	byPair := make(map[[2]domain.Layer]*layerEdge)
	for _, v := range report.Violations() {
		dd, ok := v.(*domain.DependencyDirection)
		if !ok {
			continue
		}
		key := [2]domain.Layer{dd.FromLayer, dd.ToLayer}
		e, ok := byPair[key]
		if !ok {
			e = &layerEdge{from: dd.FromLayer, to: dd.ToLayer, sample: dd.ImportPath}
			byPair[key] = e
		}
		e.count++
	}

	edges := make([]layerEdge, 0, len(byPair))
	for _, e := range byPair {
		edges = append(edges, *e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].count != edges[j].count {
			return edges[i].count > edges[j].count
		}
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})
	return edges
}

func truncateOrPad(s string, width int) string {
	if len(s) > width {
		return s[:width-1] + "…"
	}
	return padRight(s, width)
}
