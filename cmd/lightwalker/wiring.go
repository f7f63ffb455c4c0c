package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/lightwalker/dailydo/internal/config"
	"github.com/lightwalker/dailydo/internal/db"
	"github.com/lightwalker/dailydo/internal/enhancement"
	"github.com/lightwalker/dailydo/internal/llm"
	"github.com/lightwalker/dailydo/internal/types"
)

func llmConfigFrom(c config.LLMConfig) *llm.Config {
	return &llm.Config{
		Provider:    llm.Provider(c.Provider),
		Model:       c.Model,
		APIKey:      c.ResolvedAPIKey(),
		BaseURL:     c.BaseURL,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		TopP:        c.TopP,
		AppURL:      c.AppURL,
		AppName:     c.AppName,
	}
}

func enhancerFrom(cfg *config.Config, logger *zap.Logger) (*enhancement.Enhancer, llm.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}
	client, err := llm.NewClient(llmConfigFrom(cfg.LLM))
	if err != nil {
		return nil, nil, err
	}
	enhancer := enhancement.New(client, logger, enhancement.Options{
		MaxRetries:  cfg.Enhancement.MaxRetries,
		RetryDelay:  cfg.Enhancement.RetryDelay,
		CallTimeout: cfg.LLM.CallTimeout,
	})
	return enhancer, client, nil
}

func userContextFrom(c config.EnhancementConfig) types.UserContext {
	return types.UserContext{
		UserLevel:      types.UserLevel(c.UserLevel),
		AvailableTime:  types.AvailableTime(c.AvailableTime),
		PreferredStyle: types.PreferredStyle(c.PreferredStyle),
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.Store, error) {
	if cfg.Database.URL == "" {
		return nil, &config.ConfigurationError{
			Field:   "database.url",
			Message: "database URL is required (set DATABASE_URL or --db-url)",
		}
	}
	return db.Open(ctx, cfg.Database.URL, logger)
}
