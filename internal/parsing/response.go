// Package parsing turns raw LLM completions into validated DailyDo items.
package parsing

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lightwalker/dailydo/internal/llm"
	"github.com/lightwalker/dailydo/internal/schemas"
	"github.com/lightwalker/dailydo/internal/types"
)

// Parser extracts DailyDo items from completion text. Elements that fail
// structural validation are dropped and logged rather than failing the parse.
type Parser struct {
	logger   *zap.Logger
	validate *validator.Validate
}

// NewParser creates a Parser. A nil logger discards drop warnings.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ParseDailyDoItems parses raw with a Parser that does not log
func ParseDailyDoItems(raw string) ([]types.DailyDoItem, error) {
	return NewParser(nil).Parse(raw)
}

type envelope struct {
	DailyDoItems []json.RawMessage `json:"dailyDoItems"`
}

// Parse returns between 1 and MaxDailyDoItemsPerAttribute items, with
// gamePoints set equal to difficulty on every item
func (p *Parser) Parse(raw string) ([]types.DailyDoItem, error) {
	cleaned := llm.CleanJSONBlock(raw)

	if !json.Valid([]byte(cleaned)) {
		var probe any
		err := json.Unmarshal([]byte(cleaned), &probe)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, &JSONParseError{Raw: raw, Cause: err}
	}

	if err := schemas.Validate(schemas.DailyDoResponse, []byte(cleaned)); err != nil {
		return nil, &InvalidResponseStructureError{Message: "expected an object with a dailyDoItems array", Cause: err}
	}

	var env envelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return nil, &InvalidResponseStructureError{Message: "dailyDoItems could not be decoded", Cause: err}
	}

	items := make([]types.DailyDoItem, 0, len(env.DailyDoItems))
	for i, element := range env.DailyDoItems {
		item, err := p.decodeItem(element)
		if err != nil {
			p.logger.Warn("dropping invalid daily-do item",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, &NoValidItemsError{Candidates: len(env.DailyDoItems)}
	}

	if len(items) > types.MaxDailyDoItemsPerAttribute {
		p.logger.Debug("truncating daily-do items",
			zap.Int("received", len(items)),
			zap.Int("kept", types.MaxDailyDoItemsPerAttribute),
		)
		items = items[:types.MaxDailyDoItemsPerAttribute]
	}

	return items, nil
}

func (p *Parser) decodeItem(element json.RawMessage) (types.DailyDoItem, error) {
	var item types.DailyDoItem
	if err := json.Unmarshal(element, &item); err != nil {
		return item, err
	}

	normalizeItem(&item)

	if err := p.validate.Struct(item); err != nil {
		return item, err
	}
	return item, nil
}

// normalizeItem trims text fields, lowercases the enumerated ones and
// makes gamePoints equal to difficulty
func normalizeItem(item *types.DailyDoItem) {
	item.ID = strings.TrimSpace(item.ID)
	item.Action = strings.TrimSpace(item.Action)
	item.Duration = strings.TrimSpace(item.Duration)
	item.TimeOfDay = strings.ToLower(strings.TrimSpace(item.TimeOfDay))
	item.Category = strings.ToLower(strings.TrimSpace(item.Category))
	item.SuccessCriteria = strings.TrimSpace(item.SuccessCriteria)
	item.Materials = strings.TrimSpace(item.Materials)
	item.Location = strings.TrimSpace(item.Location)
	item.SocialContext = strings.TrimSpace(item.SocialContext)
	item.GamePoints = item.Difficulty
}
