// Package observability provides the zap logger and human-readable CLI output.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/lightwalker/dailydo/internal/quality"
	"github.com/lightwalker/dailydo/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxActionChars is how much of an action fits on one box line
	maxActionChars = 60
)

// Printer handles formatted progress and report output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintRunHeader announces a batch run
//
//nolint:errcheck
func (p *Printer) PrintRunHeader(runID string, candidates int, dryRun bool) {
	mode := ""
	if dryRun {
		mode = " (dry run, nothing will be saved)"
	}
	fmt.Fprintf(p.out, "Run %s: %d role model(s) to enhance%s\n\n", runID, candidates, mode)
}

// PrintRoleModelStart prints the progress line for a role model
//
//nolint:errcheck
func (p *Printer) PrintRoleModelStart(index, total int, name string, attributes int) {
	fmt.Fprintf(p.out, "[%d/%d] %s (%d attribute(s))\n", index, total, name, attributes)
}

// PrintRoleModelSkipped reports a role model that was not processed
//
//nolint:errcheck
func (p *Printer) PrintRoleModelSkipped(name, reason string) {
	fmt.Fprintf(p.out, "  - skipped %s: %s\n", name, reason)
}

// PrintAttributeResult prints one line per attribute enhancement
//
//nolint:errcheck
func (p *Printer) PrintAttributeResult(attribute string, success bool, items, retries int, errMsg string) {
	if success {
		fmt.Fprintf(p.out, "  ✓ %s: %d item(s)", attribute, items)
		if retries > 0 {
			fmt.Fprintf(p.out, " after %d retr%s", retries, plural(retries, "y", "ies"))
		}
		fmt.Fprintln(p.out)
		return
	}
	fmt.Fprintf(p.out, "  ✗ %s: %s\n", attribute, truncate(errMsg, 100))
}

// PrintRoleModelDone closes a role model's progress block
//
//nolint:errcheck
func (p *Printer) PrintRoleModelDone(name string, succeeded, total int, persisted bool, errMsg string) {
	switch {
	case errMsg != "":
		fmt.Fprintf(p.out, "  ! %s not saved: %s\n\n", name, truncate(errMsg, 100))
	case persisted:
		fmt.Fprintf(p.out, "  saved %d/%d attribute(s)\n\n", succeeded, total)
	case succeeded == 0:
		fmt.Fprintf(p.out, "  no attribute succeeded, nothing saved\n\n")
	default:
		fmt.Fprintf(p.out, "  %d/%d attribute(s) enhanced (not saved)\n\n", succeeded, total)
	}
}

// PrintRunStatistics prints the final summary table of a batch run
func (p *Printer) PrintRunStatistics(stats *types.RunStatistics) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	row := func(label string, value any) {
		sb.WriteString(fmt.Sprintf("%-24s %v\n", label+":", value))
	}
	row("Run ID", stats.RunID)
	row("Elapsed", stats.Elapsed.Round(100*time.Millisecond))
	row("Role models processed", stats.RoleModelsProcessed)
	row("Role models skipped", stats.RoleModelsSkipped)
	row("Role models failed", stats.RoleModelsFailed)
	row("Role models saved", stats.RoleModelsPersisted)
	row("Attributes seen", stats.AttributesSeen)
	row("Successes", stats.Successes)
	row("Failures", stats.Failures)
	row("Items created", stats.ItemsCreated)
	row("Tokens used", stats.TokensUsed)
	row("Success rate", fmt.Sprintf("%.1f%%", stats.SuccessRate()))
	row("Items per success", fmt.Sprintf("%.2f", stats.ItemsPerSuccess()))
	if stats.DryRun {
		row("Mode", "dry run")
	}

	p.printBox("ENHANCEMENT RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDailyDoItems prints generated items with their quality scores.
// reports may be nil or shorter than items.
func (p *Printer) PrintDailyDoItems(title string, items []types.DailyDoItem, reports []quality.Report) {
	if len(items) == 0 {
		return
	}

	var sb strings.Builder
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, truncate(item.Action, maxActionChars)))
		sb.WriteString(fmt.Sprintf("   difficulty %d · %s · %s · %s\n", item.Difficulty, item.Duration, item.TimeOfDay, item.Category))
		sb.WriteString(fmt.Sprintf("   done when: %s\n", item.SuccessCriteria))
		if i < len(reports) {
			sb.WriteString(fmt.Sprintf("   quality: %.1f%s\n", reports[i].QualityScore, issueSuffix(reports[i])))
		}
		if i < len(items)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQualityReport prints the rubric breakdown for a single item
func (p *Printer) PrintQualityReport(index int, item types.DailyDoItem, report quality.Report) {
	var sb strings.Builder
	sb.WriteString(item.Action + "\n\n")

	check := func(label string, ok bool) {
		mark := "✓"
		if !ok {
			mark = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, label))
	}
	check("concrete action verb", report.HasConcreteVerbs)
	check("first person", report.UsesFirstPerson)
	check("measurable success criteria", report.HasSuccessCriteria)
	check("difficulty 1-9", report.HasDifficultyRating)
	check("known duration", report.HasReasonableDuration)
	check("immediately doable", report.IsImmediatelyDoable)

	verdict := "PASS"
	if !report.Passed() {
		verdict = "FAIL"
	}
	sb.WriteString(fmt.Sprintf("\nscore %.1f  %s", report.QualityScore, verdict))

	p.printBox(fmt.Sprintf("ITEM %d", index+1), sb.String())
}

// PrintSummaryBreakdown prints the category and time-of-day counts of a summary
func (p *Printer) PrintSummaryBreakdown(summary types.EnhancementSummary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Attributes: %d   Items: %d   Avg difficulty: %.2f\n",
		summary.TotalAttributes, summary.TotalDailyDoItems, summary.AverageDifficulty))
	sb.WriteString(fmt.Sprintf("Easy: %d   Moderate: %d   Challenging: %d\n",
		summary.DifficultyDistribution.Easy, summary.DifficultyDistribution.Moderate, summary.DifficultyDistribution.Challenging))
	sb.WriteString("Categories:  " + formatCounts(summary.CategoryBreakdown) + "\n")
	sb.WriteString("Time of day: " + formatCounts(summary.TimeOfDayBreakdown))

	p.printBox("ENHANCEMENT SUMMARY", sb.String())
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %d", k, counts[k])
	}
	return strings.Join(parts, ", ")
}

func issueSuffix(r quality.Report) string {
	if len(r.Issues) == 0 {
		return ""
	}
	return " (" + strings.Join(r.Issues, "; ") + ")"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
