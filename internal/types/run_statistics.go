package types

import (
	"math"
	"time"
)

// RunStatistics accumulates the counters of one batch run
type RunStatistics struct {
	RunID               string        `json:"runId"`
	StartedAt           time.Time     `json:"startedAt"`
	Elapsed             time.Duration `json:"elapsed"`
	DryRun              bool          `json:"dryRun"`
	RoleModelsProcessed int           `json:"roleModelsProcessed"`
	RoleModelsSkipped   int           `json:"roleModelsSkipped"`
	RoleModelsFailed    int           `json:"roleModelsFailed"`
	RoleModelsPersisted int           `json:"roleModelsPersisted"`
	AttributesSeen      int           `json:"attributesSeen"`
	Successes           int           `json:"successes"`
	Failures            int           `json:"failures"`
	ItemsCreated        int           `json:"itemsCreated"`
	TokensUsed          int64         `json:"tokensUsed"`
}

// SuccessRate is the percentage of attributes enhanced, rounded to one decimal
func (s RunStatistics) SuccessRate() float64 {
	if s.AttributesSeen == 0 {
		return 0
	}
	return math.Round(float64(s.Successes)/float64(s.AttributesSeen)*1000) / 10
}

// ItemsPerSuccess is the mean number of items per enhanced attribute, rounded to two decimals
func (s RunStatistics) ItemsPerSuccess() float64 {
	if s.Successes == 0 {
		return 0
	}
	return math.Round(float64(s.ItemsCreated)/float64(s.Successes)*100) / 100
}
