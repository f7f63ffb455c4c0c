// Package enhancement turns one abstract method into a validated set of
// Daily-Do items by prompting an LLM, parsing the answer and scoring it.
package enhancement

import (
	"strconv"
	"strings"

	"github.com/lightwalker/dailydo/internal/prompts"
	"github.com/lightwalker/dailydo/internal/types"
)

const (
	promptFile = "enhancement.json"
	promptKey  = "daily-do-items"
)

// BuildPrompt renders the daily-do prompt for req. The same request always
// yields the same text.
func BuildPrompt(req types.EnhancementRequest) string {
	uc := withDefaultContext(req).UserContext

	template := prompts.MustGet(promptFile, promptKey)
	return prompts.Format(template, map[string]string{
		"RoleModel":      req.RoleModelName,
		"Attribute":      req.AttributeName,
		"Method":         req.AbstractMethod,
		"UserLevel":      string(uc.UserLevel),
		"AvailableTime":  string(uc.AvailableTime),
		"PreferredStyle": string(uc.PreferredStyle),
		"Durations":      quoteList(types.Durations),
		"TimesOfDay":     quoteList(types.TimesOfDay),
		"Categories":     quoteList(types.Categories),
		"MinItems":       strconv.Itoa(types.MinDailyDoItemsPerAttribute),
		"MaxItems":       strconv.Itoa(types.MaxDailyDoItemsPerAttribute),
	})
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, ", ")
}

// withDefaultContext fills empty user context fields with the product defaults
func withDefaultContext(req types.EnhancementRequest) types.EnhancementRequest {
	defaults := types.DefaultContext()
	if req.UserLevel == "" {
		req.UserLevel = defaults.UserLevel
	}
	if req.AvailableTime == "" {
		req.AvailableTime = defaults.AvailableTime
	}
	if req.PreferredStyle == "" {
		req.PreferredStyle = defaults.PreferredStyle
	}
	return req
}
