package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/timewinder-dev/wheellock/lock"
)

const rule = "================================================================================"

// formatDepthReport is the one-line progress summary printed after each round.
func formatDepthReport(depth, expanded, pruned, frontier int, elapsed time.Duration) string {
	return fmt.Sprintf("%s depth %s: %s expanded, %s pruned, %s queued (%s)\n",
		color.Cyan.Sprint("→"),
		color.Bold.Sprint(depth),
		humanize.Comma(int64(expanded)),
		humanize.Comma(int64(pruned)),
		humanize.Comma(int64(frontier)),
		elapsed.Round(time.Microsecond))
}

// FormatPath renders a path as "0000 → 1000 → ...".
func FormatPath(path []lock.State) string {
	parts := make([]string, len(path))
	for i, s := range path {
		parts[i] = s.String()
	}
	return strings.Join(parts, " → ")
}

// FormatResult formats the answer to a single query for display
func FormatResult(r *Result) string {
	var b strings.Builder
	if r.Query != "" {
		b.WriteString(color.Bold.Sprint("Query:    "))
		b.WriteString(color.Yellow.Sprintf("%s\n", r.Query))
	}
	b.WriteString(color.Bold.Sprint("Moves:    "))
	if r.Reachable {
		b.WriteString(color.Green.Sprintf("%d\n", r.Distance))
	} else {
		b.WriteString(color.Red.Sprintf("%d (unreachable)\n", Unreachable))
	}
	if len(r.Path) > 0 {
		b.WriteString(color.Bold.Sprint("Path:     "))
		b.WriteString(FormatPath(r.Path))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatStatistics formats search statistics
func FormatStatistics(stats SearchStatistics) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint("=== Search statistics ==="))
	b.WriteString("\n")
	b.WriteString(color.Bold.Sprint("States expanded: "))
	b.WriteString(fmt.Sprintf("%s\n", humanize.Comma(int64(stats.Expanded))))
	b.WriteString(color.Bold.Sprint("Neighbors generated: "))
	b.WriteString(fmt.Sprintf("%s\n", humanize.Comma(int64(stats.Generated))))
	b.WriteString(color.Bold.Sprint("Unique states visited: "))
	b.WriteString(fmt.Sprintf("%s\n", humanize.Comma(int64(stats.UniqueStates))))
	b.WriteString(color.Bold.Sprint("Duplicate states pruned: "))
	b.WriteString(fmt.Sprintf("%s\n", humanize.Comma(int64(stats.DuplicateStates))))
	b.WriteString(color.Bold.Sprint("Forbidden states hit: "))
	if stats.ForbiddenHits > 0 {
		b.WriteString(color.Yellow.Sprintf("%s\n", humanize.Comma(int64(stats.ForbiddenHits))))
	} else {
		b.WriteString(fmt.Sprintf("%d\n", stats.ForbiddenHits))
	}
	b.WriteString(color.Bold.Sprint("Maximum depth: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.MaxDepth))
	return b.String()
}

// FormatBatch formats every outcome of a batch followed by its totals.
// Outcomes whose query has an Expect value are checked against it.
func FormatBatch(outcomes []Outcome, stats BatchStatistics) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Gray.Sprint(rule))
	b.WriteString("\n")
	for i := range outcomes {
		o := &outcomes[i]
		name := o.Query.Name
		if name == "" {
			name = fmt.Sprintf("%s → %s", o.Query.Start, o.Query.Target)
		}
		if o.Err != nil {
			b.WriteString(fmt.Sprintf("%s %s: %s\n", color.Red.Sprint("✗"), name, color.Red.Sprint(o.Err)))
			continue
		}
		answer := o.Result.Answer()
		mark := color.Green.Sprint("✓")
		suffix := ""
		if o.Mismatch() {
			mark = color.Red.Sprint("✗")
			suffix = color.Red.Sprintf(" (expected %d)", *o.Query.Expect)
		}
		b.WriteString(fmt.Sprintf("%s %s: %d%s\n", mark, name, answer, suffix))
		if len(o.Result.Path) > 0 {
			b.WriteString(fmt.Sprintf("    %s\n", FormatPath(o.Result.Path)))
		}
	}
	b.WriteString(color.Gray.Sprint(rule))
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint("=== Batch statistics ==="))
	b.WriteString("\n")
	b.WriteString(color.Bold.Sprint("Queries: "))
	b.WriteString(fmt.Sprintf("%d on %d workers in %s\n", stats.Queries, stats.Workers, stats.Elapsed.Round(time.Millisecond)))
	b.WriteString(color.Bold.Sprint("Completed: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Completed))
	b.WriteString(color.Bold.Sprint("Unreachable: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Unreachable))
	b.WriteString(color.Bold.Sprint("Failed: "))
	if stats.Failed > 0 {
		b.WriteString(color.Red.Sprintf("%d\n", stats.Failed))
	} else {
		b.WriteString(color.Green.Sprintf("%d\n", stats.Failed))
	}
	return b.String()
}
