// Package observability provides logging and formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonathan/billie/internal/store"
	"github.com/jonathan/billie/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 20
	// maxSelectorWidth truncates long selectors in the violation list
	maxSelectorWidth = 40
)

var impactColors = map[types.Impact]lipgloss.Color{
	types.ImpactCritical: lipgloss.Color("#EF4444"),
	types.ImpactSerious:  lipgloss.Color("#FB923C"),
	types.ImpactModerate: lipgloss.Color("#F59E0B"),
	types.ImpactMinor:    lipgloss.Color("#8B949E"),
}

// Printer handles formatted output for audit results
type Printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
}

// NewPrinter creates a new Printer that writes to the given writer.
// Colors are only emitted when the writer is a terminal.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, renderer: lipgloss.NewRenderer(out)}
}

// printBox prints a bordered box with a title and content
//
//nolint:errcheck // writing to the terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	titleStyle := p.renderer.NewStyle().Bold(true)
	box := p.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(boxWidth)
	fmt.Fprintln(p.out, box.Render(titleStyle.Render(title)+"\n\n"+content))
}

func (p *Printer) impactStyle(impact types.Impact) lipgloss.Style {
	style := p.renderer.NewStyle().Bold(true)
	if c, ok := impactColors[impact]; ok {
		style = style.Foreground(c)
	}
	return style
}

// PrintViolations outputs a summary of the violations found on a page: totals
// by impact, then one line per selector, then the targets that were skipped.
func (p *Printer) PrintViolations(url string, records []types.ViolationRecord, counts map[types.Impact]int, skipped []store.Skipped) {
	var sb strings.Builder

	switch {
	case len(records) == 0 && len(skipped) == 0:
		sb.WriteString("No violations found.\n")
	case len(records) == 0:
		sb.WriteString(fmt.Sprintf("No overlayable violations; %d targets skipped.\n", len(skipped)))
	default:
		p.writeRecords(&sb, records, counts)
	}

	if len(skipped) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkipped %d targets:\n", len(skipped)))
		for _, s := range skipped {
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", truncate(s.Target, maxSelectorWidth), s.Reason))
		}
	}

	p.printBox(title(url), strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) writeRecords(sb *strings.Builder, records []types.ViolationRecord, counts map[types.Impact]int) {
	// Totals, most severe first
	var totals []string
	for i := len(types.Impacts) - 1; i >= 0; i-- {
		impact := types.Impacts[i]
		if counts[impact] == 0 {
			continue
		}
		totals = append(totals, p.impactStyle(impact).Render(fmt.Sprintf("%d %s", counts[impact], impact)))
	}
	sb.WriteString(fmt.Sprintf("%d elements: %s\n\n", len(records), strings.Join(totals, ", ")))

	count := min(len(records), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := records[i]
		// Pad before styling so escape codes do not count toward the column.
		label := p.impactStyle(rec.Impact).Render(fmt.Sprintf("%-10s", rec.Impact.Title()))
		sb.WriteString(fmt.Sprintf("%s %s\n", label, truncate(rec.Selector, maxSelectorWidth)))
		sb.WriteString(fmt.Sprintf("           %s", rec.Message))
		if n := rec.FixCount(); n > 0 {
			sb.WriteString(fmt.Sprintf(" (%d fixes)", n))
		}
		sb.WriteString("\n")
	}
	if len(records) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(records)-maxItemsToShow))
	}
}

// PrintSuperseded lists records that a later rule replaced on the same selector.
func (p *Printer) PrintSuperseded(records []types.ViolationRecord) {
	if len(records) == 0 {
		return
	}
	var sb strings.Builder
	for _, rec := range records {
		rule := rec.RuleID
		if rule == "" {
			rule = rec.Message
		}
		sb.WriteString(fmt.Sprintf("• %s: %s (%s)\n", truncate(rec.Selector, maxSelectorWidth), rule, rec.Impact))
	}
	p.printBox("ALSO REPORTED ON THE SAME ELEMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

func title(url string) string {
	if url == "" {
		return "ACCESSIBILITY VIOLATIONS"
	}
	return "ACCESSIBILITY VIOLATIONS: " + url
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
