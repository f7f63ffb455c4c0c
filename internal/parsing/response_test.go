package parsing

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func itemJSON(action string, difficulty int) string {
	return fmt.Sprintf(`{
		"action": %q,
		"difficulty": %d,
		"duration": "2-5 minutes",
		"timeOfDay": "morning",
		"category": "mindset",
		"successCriteria": "Written down on paper before breakfast",
		"gamePoints": 99
	}`, action, difficulty)
}

func response(items ...string) string {
	return `{"dailyDoItems": [` + strings.Join(items, ",") + `]}`
}

func TestParse_ValidResponse(t *testing.T) {
	raw := response(itemJSON("I write one sentence", 4), itemJSON("I walk around the block", 5))

	items, err := ParseDailyDoItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "I write one sentence", items[0].Action)
	assert.Equal(t, 4, items[0].Difficulty)
	assert.Equal(t, 4, items[0].GamePoints, "gamePoints follows difficulty")
	assert.Equal(t, 5, items[1].GamePoints)
}

func TestParse_FencedAndWrappedInProse(t *testing.T) {
	body := response(itemJSON("I read one page", 2), itemJSON("I call a friend", 3))

	tests := []struct {
		name string
		raw  string
	}{
		{name: "json fence", raw: "```json\n" + body + "\n```"},
		{name: "bare fence", raw: "```\n" + body + "\n```"},
		{name: "preamble", raw: "Here are your actions:\n" + body + "\nEnjoy!"},
		{name: "bracketed preamble", raw: "Here are the items [as requested]:\n" + body},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ParseDailyDoItems(tt.raw)
			require.NoError(t, err)
			assert.Len(t, items, 2)
		})
	}
}

func TestParse_NotJSON(t *testing.T) {
	_, err := ParseDailyDoItems("{ not json")

	var parseErr *JSONParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "{ not json", parseErr.Raw)
	assert.Error(t, parseErr.Unwrap())
}

func TestParse_EmptyItemList(t *testing.T) {
	_, err := ParseDailyDoItems(`{"dailyDoItems": []}`)

	var noItems *NoValidItemsError
	require.True(t, errors.As(err, &noItems))
	assert.Zero(t, noItems.Candidates)
}

func TestParse_MissingEnvelope(t *testing.T) {
	tests := []string{
		`{"items": []}`,
		`{"dailyDoItems": "three"}`,
		`[{"action": "I walk"}]`,
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseDailyDoItems(raw)

			var structErr *InvalidResponseStructureError
			require.True(t, errors.As(err, &structErr), "got %T: %v", err, err)
		})
	}
}

func TestParse_TruncatesToThree(t *testing.T) {
	raw := response(
		itemJSON("I write a goal", 2),
		itemJSON("I read a page", 3),
		itemJSON("I call my mother", 4),
		itemJSON("I walk ten minutes", 5),
	)

	items, err := ParseDailyDoItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "I call my mother", items[2].Action)
}

func TestParse_DropsInvalidElementsAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	parser := NewParser(zap.New(core))

	raw := response(
		itemJSON("I write a goal", 2),
		itemJSON("I lift a mountain", 12),
		`{"action": "I stretch", "difficulty": "hard"}`,
		`{"action": "", "difficulty": 3, "duration": "1-2 minutes", "timeOfDay": "anytime", "category": "health", "successCriteria": "Done"}`,
		itemJSON("I read a page", 3),
	)

	items, err := parser.Parse(raw)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "I write a goal", items[0].Action)
	assert.Equal(t, "I read a page", items[1].Action)

	dropped := logs.FilterMessage("dropping invalid daily-do item").All()
	require.Len(t, dropped, 3)
	assert.EqualValues(t, 1, dropped[0].ContextMap()["index"])
}

func TestParse_DropsOutOfSetEnumerations(t *testing.T) {
	raw := response(
		itemJSON("I write a goal", 2),
		`{"action": "I check my budget", "difficulty": 3, "duration": "5-10 minutes", "timeOfDay": "morning", "category": "finance", "successCriteria": "Budget reviewed line by line"}`,
		`{"action": "I read a chapter", "difficulty": 3, "duration": "5-10 minutes", "timeOfDay": "midnight", "category": "learning", "successCriteria": "One chapter read to the end"}`,
		itemJSON("I read a page", 3),
	)

	items, err := ParseDailyDoItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "mindset", item.Category)
		assert.Equal(t, "morning", item.TimeOfDay)
	}
}

func TestParse_AllElementsInvalid(t *testing.T) {
	_, err := ParseDailyDoItems(response(itemJSON("I jump", 0), itemJSON("I fly", 10)))

	var noItems *NoValidItemsError
	require.True(t, errors.As(err, &noItems))
	assert.Equal(t, 2, noItems.Candidates)
	assert.Contains(t, noItems.Error(), "none of the 2 items")
}

func TestParse_NormalizesFields(t *testing.T) {
	raw := `{"dailyDoItems": [{
		"action": "  I drink a glass of water  ",
		"difficulty": 1,
		"duration": " 1-2 minutes ",
		"timeOfDay": "Morning",
		"category": " HEALTH ",
		"successCriteria": "Glass is empty and rinsed"
	}]}`

	items, err := ParseDailyDoItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "I drink a glass of water", item.Action)
	assert.Equal(t, "1-2 minutes", item.Duration)
	assert.Equal(t, "morning", item.TimeOfDay)
	assert.Equal(t, "health", item.Category)
	assert.Equal(t, 1, item.GamePoints)
}

func TestJSONParseError_TruncatesRaw(t *testing.T) {
	err := &JSONParseError{Raw: strings.Repeat("x", 500), Cause: errors.New("boom")}
	assert.Less(t, len(err.Error()), 200)
	assert.Contains(t, err.Error(), "boom")
}
