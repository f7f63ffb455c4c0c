// Package types provides type definitions for structured data used throughout the daily-do enhancement pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "slices"

const (
	// MinDifficulty is the lowest difficulty an item may carry
	MinDifficulty = 1
	// MaxDifficulty is the highest difficulty an item may carry
	MaxDifficulty = 9

	// MinDailyDoItemsPerAttribute is the smallest accepted item count for one attribute
	MinDailyDoItemsPerAttribute = 2
	// MaxDailyDoItemsPerAttribute is the largest accepted item count for one attribute
	MaxDailyDoItemsPerAttribute = 3

	// EnhancementVersion is stamped on every record written by this pipeline
	EnhancementVersion = "1.0"
)

// Durations is the fixed set of human-readable spans an item may take.
var Durations = []string{
	"1-2 minutes",
	"2-5 minutes",
	"5-10 minutes",
	"10-15 minutes",
	"15-30 minutes",
}

// TimesOfDay is the fixed set of time-of-day slots.
var TimesOfDay = []string{"morning", "afternoon", "evening", "anytime"}

// Categories is the fixed set of item categories.
var Categories = []string{
	"mindset",
	"productivity",
	"health",
	"social",
	"learning",
	"creativity",
	"reflection",
}

// IsValidDuration reports whether d is one of Durations
func IsValidDuration(d string) bool {
	return slices.Contains(Durations, d)
}

// DailyDoItem is one concrete, immediately-doable instruction derived from an
// abstract method. Field names are the JSON contract shared with the LLM.
// The oneof lists mirror TimesOfDay and Categories; duration is left to the
// quality rubric, which penalises rather than rejects it.
type DailyDoItem struct {
	ID              string `json:"id"`
	Action          string `json:"action" validate:"required"`
	Difficulty      int    `json:"difficulty" validate:"required,min=1,max=9"`
	Duration        string `json:"duration" validate:"required"`
	TimeOfDay       string `json:"timeOfDay" validate:"required,oneof=morning afternoon evening anytime"`
	Category        string `json:"category" validate:"required,oneof=mindset productivity health social learning creativity reflection"`
	SuccessCriteria string `json:"successCriteria" validate:"required"`
	GamePoints      int    `json:"gamePoints" validate:"gte=0"`
	Materials       string `json:"materials,omitempty"`
	Location        string `json:"location,omitempty"`
	SocialContext   string `json:"socialContext,omitempty"`
}

// DifficultyBucket names the coarse difficulty band of a score
type DifficultyBucket string

// Difficulty buckets used by role-model summaries
const (
	BucketEasy        DifficultyBucket = "easy"
	BucketModerate    DifficultyBucket = "moderate"
	BucketChallenging DifficultyBucket = "challenging"
)

// BucketFor maps a difficulty to its bucket: 1-3 easy, 4-6 moderate, 7-9 challenging
func BucketFor(difficulty int) DifficultyBucket {
	switch {
	case difficulty <= 3:
		return BucketEasy
	case difficulty <= 6:
		return BucketModerate
	default:
		return BucketChallenging
	}
}
