package quality

import (
	"errors"
	"testing"

	"github.com/lightwalker/dailydo/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goodItem() types.DailyDoItem {
	return types.DailyDoItem{
		ID:              "ma-sr-001",
		Action:          "I write down one lesson from today's biggest setback",
		Difficulty:      4,
		Duration:        "5-10 minutes",
		TimeOfDay:       "evening",
		Category:        "reflection",
		SuccessCriteria: "One written sentence naming a concrete lesson",
		GamePoints:      4,
	}
}

func TestScore_PerfectItem(t *testing.T) {
	report := Score(goodItem())

	assert.True(t, report.HasConcreteVerbs)
	assert.True(t, report.UsesFirstPerson)
	assert.True(t, report.HasSuccessCriteria)
	assert.True(t, report.HasDifficultyRating)
	assert.True(t, report.HasReasonableDuration)
	assert.True(t, report.IsImmediatelyDoable)
	assert.Equal(t, 1.0, report.QualityScore)
	assert.Empty(t, report.Issues)
	assert.True(t, report.Passed())
}

func TestScore_Penalties(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*types.DailyDoItem)
		expected float64
		check    func(t *testing.T, r Report)
	}{
		{
			name:     "no concrete verb",
			mutate:   func(i *types.DailyDoItem) { i.Action = "I think about my day calmly" },
			expected: 0.8,
			check:    func(t *testing.T, r Report) { assert.False(t, r.HasConcreteVerbs) },
		},
		{
			name:     "not first person",
			mutate:   func(i *types.DailyDoItem) { i.Action = "Write down one lesson" },
			expected: 0.8,
			check:    func(t *testing.T, r Report) { assert.False(t, r.UsesFirstPerson) },
		},
		{
			name:     "short success criteria",
			mutate:   func(i *types.DailyDoItem) { i.SuccessCriteria = "done" },
			expected: 0.8,
			check:    func(t *testing.T, r Report) { assert.False(t, r.HasSuccessCriteria) },
		},
		{
			name:     "difficulty out of range",
			mutate:   func(i *types.DailyDoItem) { i.Difficulty = 12 },
			expected: 0.9,
			check:    func(t *testing.T, r Report) { assert.False(t, r.HasDifficultyRating) },
		},
		{
			name:     "unknown duration",
			mutate:   func(i *types.DailyDoItem) { i.Duration = "a while" },
			expected: 0.9,
			check:    func(t *testing.T, r Report) { assert.False(t, r.HasReasonableDuration) },
		},
		{
			name:     "setup word",
			mutate:   func(i *types.DailyDoItem) { i.Action = "I plan and write my morning routine" },
			expected: 0.8,
			check:    func(t *testing.T, r Report) { assert.False(t, r.IsImmediatelyDoable) },
		},
		{
			name: "everything wrong floors at zero",
			mutate: func(i *types.DailyDoItem) {
				i.Action = "First, prepare yourself mentally"
				i.SuccessCriteria = ""
				i.Difficulty = 0
				i.Duration = "forever"
			},
			expected: 0.0,
			check: func(t *testing.T, r Report) {
				assert.Len(t, r.Issues, 6)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := goodItem()
			tt.mutate(&item)
			report := Score(item)
			assert.Equal(t, tt.expected, report.QualityScore)
			tt.check(t, report)
		})
	}
}

func TestScore_SetupWordNeedsWordBoundary(t *testing.T) {
	item := goodItem()
	item.Action = "I write the planet names I remember"
	assert.True(t, Score(item).IsImmediatelyDoable)
}

func TestScore_Idempotent(t *testing.T) {
	item := goodItem()
	item.SuccessCriteria = "ok"
	first := Score(item)
	second := Score(item)
	assert.Equal(t, first, second)
}

func TestScore_ShortSuccessCriteriaFailsGate(t *testing.T) {
	item := goodItem()
	item.Action = "I think about what went well"
	item.SuccessCriteria = "ok"

	report := Score(item)
	assert.Less(t, report.QualityScore, MinAcceptableScore)
	assert.False(t, report.Passed())
	assert.Contains(t, report.Issues, "success criteria missing or shorter than 10 characters")
}

func TestCheckBatch(t *testing.T) {
	t.Run("accepts good batch", func(t *testing.T) {
		reports, err := CheckBatch([]types.DailyDoItem{goodItem(), goodItem()})
		require.NoError(t, err)
		assert.Len(t, reports, 2)
	})

	t.Run("rejects single item", func(t *testing.T) {
		_, err := CheckBatch([]types.DailyDoItem{goodItem()})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Message, "need at least 2")
	})

	t.Run("one weak item rejects whole batch", func(t *testing.T) {
		weak := goodItem()
		weak.Action = "Prepare to think about things"
		reports, err := CheckBatch([]types.DailyDoItem{goodItem(), weak, goodItem()})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Len(t, vErr.Failures, 1)
		assert.Equal(t, 1, vErr.Failures[0].Index)
		assert.Len(t, reports, 3)
	})

	t.Run("success criteria invariant is enforced even at threshold", func(t *testing.T) {
		short := goodItem()
		short.SuccessCriteria = "ok"
		_, err := CheckBatch([]types.DailyDoItem{goodItem(), short})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, 0.8, vErr.Failures[0].Report.QualityScore)
	})
}
