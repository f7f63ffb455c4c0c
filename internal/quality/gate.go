package quality

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lightwalker/dailydo/internal/types"
)

// ItemFailure describes why one item of a batch was rejected
type ItemFailure struct {
	Index  int
	Action string
	Report Report
}

// ValidationError is returned when a batch of items does not pass the quality gate.
// Any single failing item rejects the whole batch.
type ValidationError struct {
	Message  string
	Failures []ItemFailure
}

func (e *ValidationError) Error() string {
	if len(e.Failures) == 0 {
		return fmt.Sprintf("quality validation failed: %s", e.Message)
	}

	var sb strings.Builder
	sb.WriteString("quality validation failed: ")
	sb.WriteString(e.Message)
	for _, f := range e.Failures {
		sb.WriteString(fmt.Sprintf("; item %d scored %.1f (%s)", f.Index+1, f.Report.QualityScore, strings.Join(f.Report.Issues, ", ")))
	}
	return sb.String()
}

// CheckBatch accepts a batch only if it has at least MinDailyDoItemsPerAttribute
// items, every item scores at least MinAcceptableScore, and every item holds the
// item invariants (difficulty 1-9, success criteria longer than 10 characters).
// It returns the per-item reports alongside any error.
func CheckBatch(items []types.DailyDoItem) ([]Report, error) {
	if len(items) < types.MinDailyDoItemsPerAttribute {
		return nil, &ValidationError{
			Message: fmt.Sprintf("got %d valid items, need at least %d", len(items), types.MinDailyDoItemsPerAttribute),
		}
	}

	reports := make([]Report, len(items))
	var failures []ItemFailure
	for i, item := range items {
		reports[i] = Score(item)
		if !reports[i].Passed() || !holdsInvariants(item) {
			failures = append(failures, ItemFailure{Index: i, Action: item.Action, Report: reports[i]})
		}
	}

	if len(failures) > 0 {
		return reports, &ValidationError{
			Message:  fmt.Sprintf("%d of %d items below threshold %.1f", len(failures), len(items), MinAcceptableScore),
			Failures: failures,
		}
	}
	return reports, nil
}

func holdsInvariants(item types.DailyDoItem) bool {
	if item.Difficulty < types.MinDifficulty || item.Difficulty > types.MaxDifficulty {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(item.SuccessCriteria)) > minSuccessCriteriaChars
}
