// Package aggregate builds the persisted enhancement records from accepted items.
// Every function here is pure.
package aggregate

import (
	"math"
	"time"

	"github.com/lightwalker/dailydo/internal/types"
)

// EnhancedBy identifies this pipeline in persisted records
const EnhancedBy = "daily-do-enhancer"

// Metadata describes the run that produced a role model's enhancement
type Metadata struct {
	EnhancedAt  time.Time
	EnhancedBy  string
	Version     string
	UserContext types.UserContext
	RunID       string
}

// BuildAttributeEnhancement wraps 2 to 3 accepted items with their difficulty
// range and summed game points
func BuildAttributeEnhancement(attributeID, originalMethod string, items []types.DailyDoItem, at time.Time) (types.AttributeEnhancement, error) {
	if len(items) < types.MinDailyDoItemsPerAttribute || len(items) > types.MaxDailyDoItemsPerAttribute {
		return types.AttributeEnhancement{}, &ItemCountError{AttributeID: attributeID, Count: len(items)}
	}

	owned := make([]types.DailyDoItem, len(items))
	copy(owned, items)

	minD, maxD := owned[0].Difficulty, owned[0].Difficulty
	sum, points := 0, 0
	for _, item := range owned {
		minD = min(minD, item.Difficulty)
		maxD = max(maxD, item.Difficulty)
		sum += item.Difficulty
		points += item.GamePoints
	}

	return types.AttributeEnhancement{
		AttributeID:     attributeID,
		OriginalMethod:  originalMethod,
		DailyDoItems:    owned,
		EnhancedAt:      at.UTC(),
		EnhancedVersion: types.EnhancementVersion,
		DifficultyRange: types.DifficultyRange{
			Min:     minD,
			Max:     maxD,
			Average: round2(float64(sum) / float64(len(owned))),
		},
		TotalGamePoints: points,
	}, nil
}

// BuildSummary walks every item of every attribute once
func BuildSummary(attrs []types.AttributeEnhancement) types.EnhancementSummary {
	summary := types.EnhancementSummary{
		TotalAttributes:    len(attrs),
		CategoryBreakdown:  make(map[string]int),
		TimeOfDayBreakdown: make(map[string]int),
	}

	sum := 0
	for _, attr := range attrs {
		for _, item := range attr.DailyDoItems {
			summary.TotalDailyDoItems++
			sum += item.Difficulty

			switch types.BucketFor(item.Difficulty) {
			case types.BucketEasy:
				summary.DifficultyDistribution.Easy++
			case types.BucketModerate:
				summary.DifficultyDistribution.Moderate++
			case types.BucketChallenging:
				summary.DifficultyDistribution.Challenging++
			}

			summary.CategoryBreakdown[item.Category]++
			summary.TimeOfDayBreakdown[item.TimeOfDay]++
		}
	}

	if summary.TotalDailyDoItems > 0 {
		summary.AverageDifficulty = round2(float64(sum) / float64(summary.TotalDailyDoItems))
	}
	return summary
}

// BuildRoleModelEnhancement assembles the record persisted for one role model
func BuildRoleModelEnhancement(attrs []types.AttributeEnhancement, meta Metadata) types.RoleModelEnhancement {
	if meta.EnhancedBy == "" {
		meta.EnhancedBy = EnhancedBy
	}
	if meta.Version == "" {
		meta.Version = types.EnhancementVersion
	}

	return types.RoleModelEnhancement{
		Attributes:         attrs,
		EnhancedAt:         meta.EnhancedAt.UTC(),
		EnhancedBy:         meta.EnhancedBy,
		Version:            meta.Version,
		EnhancementContext: types.EnhancementContext{UserContext: meta.UserContext, RunID: meta.RunID},
		Summary:            BuildSummary(attrs),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
