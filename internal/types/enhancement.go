package types

import "time"

// UserLevel is the experience level the generated items are pitched at
type UserLevel string

// User levels
const (
	LevelBeginner     UserLevel = "beginner"
	LevelIntermediate UserLevel = "intermediate"
	LevelAdvanced     UserLevel = "advanced"
)

// AvailableTime is how much time the user has for one item
type AvailableTime string

// Available time windows
const (
	Time2To5Min   AvailableTime = "2-5min"
	Time5To15Min  AvailableTime = "5-15min"
	Time15To30Min AvailableTime = "15-30min"
)

// PreferredStyle is how the user likes instructions framed
type PreferredStyle string

// Preferred styles
const (
	StyleStructured PreferredStyle = "structured"
	StyleFlexible   PreferredStyle = "flexible"
	StyleCreative   PreferredStyle = "creative"
)

// UserContext describes who the items are generated for
type UserContext struct {
	UserLevel      UserLevel      `json:"userLevel" yaml:"user_level" validate:"required,oneof=beginner intermediate advanced"`
	AvailableTime  AvailableTime  `json:"availableTime" yaml:"available_time" validate:"required,oneof=2-5min 5-15min 15-30min"`
	PreferredStyle PreferredStyle `json:"preferredStyle" yaml:"preferred_style" validate:"required,oneof=structured flexible creative"`
}

// DefaultContext returns the product defaults used by batch runs
func DefaultContext() UserContext {
	return UserContext{
		UserLevel:      LevelBeginner,
		AvailableTime:  Time5To15Min,
		PreferredStyle: StyleStructured,
	}
}

// EnhancementRequest is the input for one attribute enhancement. It is never persisted.
type EnhancementRequest struct {
	RoleModelName  string `json:"roleModelName" yaml:"role_model" validate:"required"`
	AttributeName  string `json:"attributeName" yaml:"attribute" validate:"required"`
	AbstractMethod string `json:"abstractMethod" yaml:"method" validate:"required"`
	UserContext    `yaml:",inline"`
}

// DifficultyRange summarises the difficulties of one attribute's items
type DifficultyRange struct {
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Average float64 `json:"average"`
}

// AttributeEnhancement aggregates the accepted items for one (role model, attribute) pair
type AttributeEnhancement struct {
	AttributeID     string          `json:"attributeId"`
	OriginalMethod  string          `json:"originalMethod"`
	DailyDoItems    []DailyDoItem   `json:"dailyDoItems"`
	EnhancedAt      time.Time       `json:"enhancedAt"`
	EnhancedVersion string          `json:"enhancedVersion"`
	DifficultyRange DifficultyRange `json:"difficultyRange"`
	TotalGamePoints int             `json:"totalGamePoints"`
}

// DifficultyDistribution counts items per difficulty bucket
type DifficultyDistribution struct {
	Easy        int `json:"easy"`
	Moderate    int `json:"moderate"`
	Challenging int `json:"challenging"`
}

// EnhancementSummary is derived from every item of a role model's enhancement
type EnhancementSummary struct {
	TotalAttributes        int                    `json:"totalAttributes"`
	TotalDailyDoItems      int                    `json:"totalDailyDoItems"`
	AverageDifficulty      float64                `json:"averageDifficulty"`
	DifficultyDistribution DifficultyDistribution `json:"difficultyDistribution"`
	CategoryBreakdown      map[string]int         `json:"categoryBreakdown"`
	TimeOfDayBreakdown     map[string]int         `json:"timeOfDayBreakdown"`
}

// EnhancementContext records the settings a role model was enhanced with
type EnhancementContext struct {
	UserContext
	RunID string `json:"runId,omitempty"`
}

// RoleModelEnhancement is the record persisted on a role model after a batch run
type RoleModelEnhancement struct {
	Attributes         []AttributeEnhancement `json:"attributes"`
	EnhancedAt         time.Time              `json:"enhancedAt"`
	EnhancedBy         string                 `json:"enhancedBy"`
	Version            string                 `json:"version"`
	EnhancementContext EnhancementContext     `json:"enhancementContext"`
	Summary            EnhancementSummary     `json:"summary"`
}
