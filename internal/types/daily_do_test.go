package types

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func validItem() DailyDoItem {
	return DailyDoItem{
		Action:          "I write three things I can control",
		Difficulty:      3,
		Duration:        "2-5 minutes",
		TimeOfDay:       "morning",
		Category:        "mindset",
		SuccessCriteria: "Three items written down",
		GamePoints:      3,
	}
}

func TestDailyDoItem_Validation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		mutate  func(*DailyDoItem)
		wantErr bool
	}{
		{name: "valid", mutate: func(*DailyDoItem) {}},
		{name: "missing action", mutate: func(i *DailyDoItem) { i.Action = "" }, wantErr: true},
		{name: "difficulty zero", mutate: func(i *DailyDoItem) { i.Difficulty = 0 }, wantErr: true},
		{name: "difficulty ten", mutate: func(i *DailyDoItem) { i.Difficulty = 10 }, wantErr: true},
		{name: "difficulty nine", mutate: func(i *DailyDoItem) { i.Difficulty = 9 }},
		{name: "negative points", mutate: func(i *DailyDoItem) { i.GamePoints = -1 }, wantErr: true},
		{name: "missing criteria", mutate: func(i *DailyDoItem) { i.SuccessCriteria = "" }, wantErr: true},
		{name: "optional fields empty", mutate: func(i *DailyDoItem) { i.Materials, i.Location = "", "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)
			err := validate.Struct(item)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnumerations(t *testing.T) {
	assert.True(t, IsValidDuration("15-30 minutes"))
	assert.False(t, IsValidDuration("an hour"))
}

func TestDailyDoItem_EnumeratedFields(t *testing.T) {
	validate := validator.New()

	for _, tod := range TimesOfDay {
		item := validItem()
		item.TimeOfDay = tod
		assert.NoError(t, validate.Struct(item), "timeOfDay %q", tod)
	}
	for _, category := range Categories {
		item := validItem()
		item.Category = category
		assert.NoError(t, validate.Struct(item), "category %q", category)
	}

	item := validItem()
	item.TimeOfDay = "midnight"
	assert.Error(t, validate.Struct(item))

	item = validItem()
	item.Category = "finance"
	assert.Error(t, validate.Struct(item))
}

func TestBucketFor(t *testing.T) {
	want := map[int]DifficultyBucket{
		1: BucketEasy, 3: BucketEasy,
		4: BucketModerate, 6: BucketModerate,
		7: BucketChallenging, 9: BucketChallenging,
	}
	for d, bucket := range want {
		assert.Equal(t, bucket, BucketFor(d), "difficulty %d", d)
	}
}

func TestRoleModelRecord_IsEnhanced(t *testing.T) {
	assert.False(t, RoleModelRecord{}.IsEnhanced())
	assert.False(t, RoleModelRecord{EnhancedAttributes: []byte("null")}.IsEnhanced())
	assert.False(t, RoleModelRecord{EnhancedAttributes: []byte(" null\n")}.IsEnhanced())
	assert.True(t, RoleModelRecord{EnhancedAttributes: []byte(`{"version":"1.0"}`)}.IsEnhanced())
}

func TestRunStatistics_Ratios(t *testing.T) {
	assert.Zero(t, RunStatistics{}.SuccessRate())
	assert.Zero(t, RunStatistics{}.ItemsPerSuccess())

	s := RunStatistics{AttributesSeen: 3, Successes: 2, ItemsCreated: 5}
	assert.Equal(t, 66.7, s.SuccessRate())
	assert.Equal(t, 2.5, s.ItemsPerSuccess())
}

func TestDefaultContext(t *testing.T) {
	ctx := DefaultContext()
	assert.Equal(t, LevelBeginner, ctx.UserLevel)
	assert.Equal(t, Time5To15Min, ctx.AvailableTime)
	assert.Equal(t, StyleStructured, ctx.PreferredStyle)
	assert.NoError(t, validator.New().Struct(ctx))
}
