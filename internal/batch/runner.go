// Package batch enhances every eligible role model once, attribute by attribute,
// and writes the aggregated records back to the store.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lightwalker/dailydo/internal/aggregate"
	"github.com/lightwalker/dailydo/internal/enhancement"
	"github.com/lightwalker/dailydo/internal/schemas"
	"github.com/lightwalker/dailydo/internal/types"
)

// DefaultRateLimitDelay is the minimum gap between the end of one LLM call and the start of the next
const DefaultRateLimitDelay = 2 * time.Second

// Store is the persistence the runner reads candidates from and writes records to
type Store interface {
	ListEnhancementCandidates(ctx context.Context, filter types.CandidateFilter) ([]types.RoleModelRecord, error)
	SaveRoleModelEnhancement(ctx context.Context, roleModelID string, record *types.RoleModelEnhancement) error
}

// Enhancer turns one request into accepted items
type Enhancer interface {
	Enhance(ctx context.Context, req types.EnhancementRequest) enhancement.Result
}

// Progress receives human-readable progress events
type Progress interface {
	PrintRunHeader(runID string, candidates int, dryRun bool)
	PrintRoleModelStart(index, total int, name string, attributes int)
	PrintRoleModelSkipped(name, reason string)
	PrintAttributeResult(attribute string, success bool, items, retries int, errMsg string)
	PrintRoleModelDone(name string, succeeded, total int, persisted bool, errMsg string)
}

// Options configures a Runner
type Options struct {
	Filter types.CandidateFilter
	// RateLimitDelay is the minimum gap after each enhancer call; zero disables it
	RateLimitDelay time.Duration
	// DryRun enhances without persisting
	DryRun bool
	// UserContext is applied to every request; zero fields take the product defaults
	UserContext types.UserContext
}

// DefaultOptions returns the settings of a production run
func DefaultOptions() Options {
	return Options{
		Filter:         types.DefaultCandidateFilter(),
		RateLimitDelay: DefaultRateLimitDelay,
		UserContext:    types.DefaultContext(),
	}
}

// Runner processes role models serially
type Runner struct {
	store    Store
	enhancer Enhancer
	logger   *zap.Logger
	progress Progress
	pacer    *Pacer
	opts     Options

	now      func() time.Time
	newRunID func() string
}

// NewRunner creates a Runner that reports progress nowhere until WithProgress is called
func NewRunner(store Store, enhancer Enhancer, logger *zap.Logger, opts Options) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.UserContext = withDefaults(opts.UserContext)

	return &Runner{
		store:    store,
		enhancer: enhancer,
		logger:   logger.Named("batch"),
		progress: nopProgress{},
		pacer:    NewPacer(opts.RateLimitDelay),
		opts:     opts,
		now:      time.Now,
		newRunID: func() string { return uuid.NewString() },
	}
}

// WithProgress sets the progress sink
func (r *Runner) WithProgress(p Progress) *Runner {
	if p != nil {
		r.progress = p
	}
	return r
}

// Run enhances every candidate once. Per-attribute and per-role-model failures
// are counted in the statistics; only a failure to list candidates or a
// canceled context is returned as an error.
func (r *Runner) Run(ctx context.Context) (*types.RunStatistics, error) {
	stats := &types.RunStatistics{
		RunID:     r.newRunID(),
		StartedAt: r.now(),
		DryRun:    r.opts.DryRun,
	}
	log := r.logger.With(zap.String("run_id", stats.RunID))
	defer func() { stats.Elapsed = r.now().Sub(stats.StartedAt) }()

	candidates, err := r.store.ListEnhancementCandidates(ctx, r.opts.Filter)
	if err != nil {
		return stats, fmt.Errorf("failed to list enhancement candidates: %w", err)
	}

	log.Info("batch started", zap.Int("candidates", len(candidates)), zap.Bool("dry_run", r.opts.DryRun))
	r.progress.PrintRunHeader(stats.RunID, len(candidates), r.opts.DryRun)

	for i, record := range candidates {
		if err := ctx.Err(); err != nil {
			log.Warn("batch canceled", zap.Int("remaining", len(candidates)-i))
			return stats, err
		}
		if err := r.processRoleModel(ctx, i+1, len(candidates), record, stats); err != nil {
			log.Warn("batch canceled", zap.Int("remaining", len(candidates)-i))
			return stats, err
		}
	}

	log.Info("batch finished",
		zap.Int("processed", stats.RoleModelsProcessed),
		zap.Int("skipped", stats.RoleModelsSkipped),
		zap.Int("failed", stats.RoleModelsFailed),
		zap.Int("successes", stats.Successes),
		zap.Int("failures", stats.Failures),
		zap.Int("items", stats.ItemsCreated),
	)
	return stats, nil
}

// processRoleModel returns an error only when ctx was canceled mid-way; the
// role model's partial work is then dropped
func (r *Runner) processRoleModel(ctx context.Context, index, total int, record types.RoleModelRecord, stats *types.RunStatistics) error {
	log := r.logger.With(zap.String("role_model_id", record.ID), zap.String("role_model", record.Name))

	if record.IsEnhanced() {
		stats.RoleModelsSkipped++
		log.Debug("role model already enhanced")
		r.progress.PrintRoleModelSkipped(record.Name, "already enhanced")
		return nil
	}

	attrs, err := decodeSourceAttributes(record)
	if err != nil {
		stats.RoleModelsSkipped++
		log.Warn("skipping role model", zap.Error(err))
		r.progress.PrintRoleModelSkipped(record.Name, err.Error())
		return nil
	}

	stats.RoleModelsProcessed++
	r.progress.PrintRoleModelStart(index, total, record.Name, len(attrs))

	ids := newIDSequence(record.Name)
	attributeIDs := newSlugSet()
	var enhanced []types.AttributeEnhancement
	for _, attr := range attrs {
		if err := r.pacer.Wait(ctx); err != nil {
			return err
		}

		stats.AttributesSeen++
		req := types.EnhancementRequest{
			RoleModelName:  record.Name,
			AttributeName:  attr.Name,
			AbstractMethod: attr.Method,
			UserContext:    r.opts.UserContext,
		}
		result := r.enhancer.Enhance(ctx, req)
		r.pacer.Done()
		stats.TokensUsed += result.Metadata.TokensUsed

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !result.Success {
			stats.Failures++
			log.Warn("attribute enhancement failed",
				zap.String("attribute", attr.Name),
				zap.Int("retries", result.Metadata.RetryCount),
				zap.String("error", result.Error),
			)
			r.progress.PrintAttributeResult(attr.Name, false, 0, result.Metadata.RetryCount, result.Error)
			continue
		}

		items := ids.assign(attr.Name, result.DailyDoItems)
		attrEnhancement, err := aggregate.BuildAttributeEnhancement(attributeIDs.claim(attr.Name), attr.Method, items, r.now())
		if err != nil {
			stats.Failures++
			log.Error("attribute aggregation failed", zap.String("attribute", attr.Name), zap.Error(err))
			r.progress.PrintAttributeResult(attr.Name, false, 0, result.Metadata.RetryCount, err.Error())
			continue
		}

		stats.Successes++
		stats.ItemsCreated += len(items)
		enhanced = append(enhanced, attrEnhancement)
		r.progress.PrintAttributeResult(attr.Name, true, len(items), result.Metadata.RetryCount, "")
	}

	if len(enhanced) == 0 {
		stats.RoleModelsFailed++
		log.Warn("no attribute enhanced, nothing to save")
		r.progress.PrintRoleModelDone(record.Name, 0, len(attrs), false, "")
		return nil
	}

	enhancementRecord := aggregate.BuildRoleModelEnhancement(enhanced, aggregate.Metadata{
		EnhancedAt:  r.now(),
		EnhancedBy:  aggregate.EnhancedBy,
		Version:     types.EnhancementVersion,
		UserContext: r.opts.UserContext,
		RunID:       stats.RunID,
	})

	if r.opts.DryRun {
		log.Info("dry run, not saving", zap.Int("attributes", len(enhanced)))
		r.progress.PrintRoleModelDone(record.Name, len(enhanced), len(attrs), false, "")
		return nil
	}

	if err := r.persist(ctx, record.ID, &enhancementRecord); err != nil {
		stats.RoleModelsFailed++
		log.Error("failed to save enhancement", zap.Error(err))
		r.progress.PrintRoleModelDone(record.Name, len(enhanced), len(attrs), false, err.Error())
		return nil
	}

	stats.RoleModelsPersisted++
	log.Info("enhancement saved", zap.Int("attributes", len(enhanced)))
	r.progress.PrintRoleModelDone(record.Name, len(enhanced), len(attrs), true, "")
	return nil
}

func (r *Runner) persist(ctx context.Context, roleModelID string, record *types.RoleModelEnhancement) error {
	if err := schemas.ValidateValue(schemas.RoleModelEnhancement, record); err != nil {
		return &PersistenceError{RoleModelID: roleModelID, Message: "record failed schema validation", Cause: err}
	}
	if err := r.store.SaveRoleModelEnhancement(ctx, roleModelID, record); err != nil {
		return &PersistenceError{RoleModelID: roleModelID, Message: "failed to save enhancement", Cause: err}
	}
	return nil
}

func withDefaults(uc types.UserContext) types.UserContext {
	def := types.DefaultContext()
	if uc.UserLevel == "" {
		uc.UserLevel = def.UserLevel
	}
	if uc.AvailableTime == "" {
		uc.AvailableTime = def.AvailableTime
	}
	if uc.PreferredStyle == "" {
		uc.PreferredStyle = def.PreferredStyle
	}
	return uc
}

type nopProgress struct{}

func (nopProgress) PrintRunHeader(string, int, bool) {}
func (nopProgress) PrintRoleModelStart(int, int, string, int) {}
func (nopProgress) PrintRoleModelSkipped(string, string) {}
func (nopProgress) PrintAttributeResult(string, bool, int, int, string) {}
func (nopProgress) PrintRoleModelDone(string, int, int, bool, string) {}
