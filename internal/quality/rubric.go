// Package quality scores daily-do items against a fixed, deterministic rubric.
package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lightwalker/dailydo/internal/types"
)

// MinAcceptableScore is the score every item of a batch must reach
const MinAcceptableScore = 0.8

// minSuccessCriteriaChars is the shortest success criteria the rubric accepts
const minSuccessCriteriaChars = 10

// Penalties are kept in tenths so that threshold comparisons are exact.
const (
	penaltyNoConcreteVerb    = 2
	penaltyNotFirstPerson    = 2
	penaltyNoSuccessCriteria = 2
	penaltyBadDifficulty     = 1
	penaltyBadDuration       = 1
	penaltySetupWord         = 2
	fullScore                = 10
)

// Concrete action verbs (base form, as used in first-person instructions)
var concreteVerbs = map[string]bool{
	"write": true, "set": true, "call": true, "walk": true, "read": true,
	"create": true, "ask": true, "choose": true, "draw": true, "speak": true,
	"list": true, "cross": true, "text": true, "send": true, "say": true,
	"take": true, "name": true, "put": true, "pick": true, "drink": true,
	"stand": true, "stretch": true, "breathe": true, "jot": true, "circle": true,
	"tell": true, "thank": true, "open": true, "close": true, "clear": true,
	"sit": true, "smile": true, "look": true, "count": true, "record": true,
}

// Words that signal preparation work rather than an immediately-doable action
var setupWordPattern = regexp.MustCompile(`(?i)\b(first|prepare|plan|organize|setup|arrange)\b`)

var wordSplitter = regexp.MustCompile(`[^a-z']+`)

// Report is the outcome of scoring one item
type Report struct {
	HasConcreteVerbs      bool     `json:"hasConcreteVerbs"`
	HasSuccessCriteria    bool     `json:"hasSuccessCriteria"`
	IsImmediatelyDoable   bool     `json:"isImmediatelyDoable"`
	UsesFirstPerson       bool     `json:"usesFirstPerson"`
	HasDifficultyRating   bool     `json:"hasDifficultyRating"`
	HasReasonableDuration bool     `json:"hasReasonableDuration"`
	QualityScore          float64  `json:"qualityScore"`
	Issues                []string `json:"issues"`
}

// Passed reports whether the item meets MinAcceptableScore
func (r Report) Passed() bool {
	return r.QualityScore >= MinAcceptableScore
}

// Score evaluates one item. It is pure: the same item always yields the same report.
func Score(item types.DailyDoItem) Report {
	report := Report{Issues: []string{}}
	points := fullScore

	report.HasConcreteVerbs = checkConcreteVerb(item.Action)
	if !report.HasConcreteVerbs {
		points -= penaltyNoConcreteVerb
		report.Issues = append(report.Issues, "action lacks a concrete action verb")
	}

	report.UsesFirstPerson = checkFirstPerson(item.Action)
	if !report.UsesFirstPerson {
		points -= penaltyNotFirstPerson
		report.Issues = append(report.Issues, `action does not start with "I "`)
	}

	report.HasSuccessCriteria = checkSuccessCriteria(item.SuccessCriteria)
	if !report.HasSuccessCriteria {
		points -= penaltyNoSuccessCriteria
		report.Issues = append(report.Issues,
			fmt.Sprintf("success criteria missing or shorter than %d characters", minSuccessCriteriaChars))
	}

	report.HasDifficultyRating = item.Difficulty >= types.MinDifficulty && item.Difficulty <= types.MaxDifficulty
	if !report.HasDifficultyRating {
		points -= penaltyBadDifficulty
		report.Issues = append(report.Issues,
			fmt.Sprintf("difficulty %d outside %d-%d", item.Difficulty, types.MinDifficulty, types.MaxDifficulty))
	}

	report.HasReasonableDuration = types.IsValidDuration(item.Duration)
	if !report.HasReasonableDuration {
		points -= penaltyBadDuration
		report.Issues = append(report.Issues, fmt.Sprintf("duration %q is not a recognised span", item.Duration))
	}

	setupWord := setupWordPattern.FindString(item.Action)
	report.IsImmediatelyDoable = setupWord == ""
	if !report.IsImmediatelyDoable {
		points -= penaltySetupWord
		report.Issues = append(report.Issues,
			fmt.Sprintf("action contains setup word %q and is not immediately doable", strings.ToLower(setupWord)))
	}

	if points < 0 {
		points = 0
	}
	report.QualityScore = float64(points) / fullScore

	return report
}

// checkConcreteVerb checks whether any word of the action is a known concrete verb
func checkConcreteVerb(action string) bool {
	for _, word := range wordSplitter.Split(strings.ToLower(action), -1) {
		if concreteVerbs[word] {
			return true
		}
	}
	return false
}

// checkFirstPerson checks the action opens with the pronoun "I"
func checkFirstPerson(action string) bool {
	return strings.HasPrefix(strings.TrimSpace(action), "I ")
}

func checkSuccessCriteria(criteria string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(criteria)) >= minSuccessCriteriaChars
}
