package enhancement

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lightwalker/dailydo/internal/llm"
	"github.com/lightwalker/dailydo/internal/parsing"
	"github.com/lightwalker/dailydo/internal/quality"
	"github.com/lightwalker/dailydo/internal/types"
)

// Stage is a step of the per-request state machine
type Stage string

// Stages of one enhancement. An attempt moves Building -> Calling -> Parsing
// -> Validating and ends in Success, Retry (back to Building) or Failure.
const (
	StageBuilding   Stage = "building"
	StageCalling    Stage = "calling"
	StageParsing    Stage = "parsing"
	StageValidating Stage = "validating"
	StageSuccess    Stage = "success"
	StageRetry      Stage = "retry"
	StageFailure    Stage = "failure"
)

// Defaults for Options
const (
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = time.Second
	DefaultCallTimeout = 60 * time.Second
)

// Options tunes the retry loop
type Options struct {
	// MaxRetries is the total number of attempts, including the first
	MaxRetries int
	// RetryDelay is multiplied by the attempt number to get the backoff
	RetryDelay time.Duration
	// CallTimeout bounds each LLM call; zero disables the bound
	CallTimeout time.Duration
}

// DefaultOptions returns the production retry settings
func DefaultOptions() Options {
	return Options{
		MaxRetries:  DefaultMaxRetries,
		RetryDelay:  DefaultRetryDelay,
		CallTimeout: DefaultCallTimeout,
	}
}

// Attempt is the trace of one pass through the state machine
type Attempt struct {
	Number     int           `json:"number"`
	Stage      Stage         `json:"stage"`
	Error      string        `json:"error,omitempty"`
	TokensUsed int64         `json:"tokensUsed"`
	Duration   time.Duration `json:"duration"`
}

// Metadata accumulates across every attempt of one request
type Metadata struct {
	TokensUsed       int64     `json:"tokensUsed"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
	RetryCount       int       `json:"retryCount"`
	Model            string    `json:"model,omitempty"`
	Attempts         []Attempt `json:"attempts,omitempty"`
}

// Result is the outcome of Enhance. On failure Err holds the last error
// and Error its message.
type Result struct {
	Success      bool                `json:"success"`
	DailyDoItems []types.DailyDoItem `json:"dailyDoItems,omitempty"`
	Reports      []quality.Report    `json:"reports,omitempty"`
	Err          error               `json:"-"`
	Error        string              `json:"error,omitempty"`
	Metadata     Metadata            `json:"metadata"`
}

// Enhancer drives one request through prompt, completion, parsing and the
// quality gate, retrying failed attempts with linear backoff
type Enhancer struct {
	client   llm.Client
	parser   *parsing.Parser
	logger   *zap.Logger
	validate *validator.Validate
	opts     Options

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// New creates an Enhancer. Zero fields in opts take their defaults.
func New(client llm.Client, logger *zap.Logger, opts Options) *Enhancer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = 0
	}
	logger = logger.Named("enhancer")

	return &Enhancer{
		client:   client,
		parser:   parsing.NewParser(logger),
		logger:   logger,
		validate: validator.New(),
		opts:     opts,
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// Enhance never returns an error; failures are reported in the Result
func (e *Enhancer) Enhance(ctx context.Context, req types.EnhancementRequest) Result {
	start := e.now()
	result := Result{Metadata: Metadata{Model: e.client.Model()}}
	log := e.logger.With(
		zap.String("role_model", req.RoleModelName),
		zap.String("attribute", req.AttributeName),
	)

	finish := func(stage Stage, err error) Result {
		result.Metadata.ProcessingTimeMs = e.now().Sub(start).Milliseconds()
		if stage == StageSuccess {
			result.Success = true
			log.Info("enhancement succeeded",
				zap.Int("items", len(result.DailyDoItems)),
				zap.Int("retries", result.Metadata.RetryCount),
				zap.Int64("tokens", result.Metadata.TokensUsed),
			)
			return result
		}
		result.Err = err
		result.Error = err.Error()
		log.Warn("enhancement failed",
			zap.Int("attempts", len(result.Metadata.Attempts)),
			zap.Error(err),
		)
		return result
	}

	req = withDefaultContext(req)
	if err := e.validate.Struct(req); err != nil {
		return finish(StageFailure, &InvalidRequestError{Message: "request failed validation", Cause: err})
	}

	var lastErr error
	for attempt := 1; attempt <= e.opts.MaxRetries; attempt++ {
		if attempt > 1 {
			result.Metadata.RetryCount++
			delay := e.opts.RetryDelay * time.Duration(attempt-1)
			log.Debug("retrying enhancement", zap.Int("attempt", attempt), zap.Duration("backoff", delay))
			if err := e.sleep(ctx, delay); err != nil {
				return finish(StageFailure, err)
			}
		}

		trace, items, reports, err := e.attempt(ctx, attempt, req)
		result.Metadata.Attempts = append(result.Metadata.Attempts, trace)
		result.Metadata.TokensUsed += trace.TokensUsed

		if err == nil {
			result.DailyDoItems = items
			result.Reports = reports
			return finish(StageSuccess, nil)
		}

		lastErr = err
		log.Warn("enhancement attempt failed",
			zap.Int("attempt", attempt),
			zap.String("stage", string(trace.Stage)),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			return finish(StageFailure, ctx.Err())
		}
		if !IsRetryable(err) {
			return finish(StageFailure, err)
		}
	}

	return finish(StageFailure, lastErr)
}

// attempt runs one Building -> Validating pass. The returned Attempt names
// the stage reached.
func (e *Enhancer) attempt(ctx context.Context, number int, req types.EnhancementRequest) (Attempt, []types.DailyDoItem, []quality.Report, error) {
	started := e.now()
	trace := Attempt{Number: number, Stage: StageBuilding}
	fail := func(stage Stage, err error) (Attempt, []types.DailyDoItem, []quality.Report, error) {
		wrapped := &AttemptError{Attempt: number, Stage: stage, Cause: err}
		trace.Stage = stage
		trace.Error = err.Error()
		trace.Duration = e.now().Sub(started)
		return trace, nil, nil, wrapped
	}

	prompt := BuildPrompt(req)

	callCtx := ctx
	if e.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.opts.CallTimeout)
		defer cancel()
	}
	completion, err := e.client.Complete(callCtx, prompt)
	if err != nil {
		return fail(StageCalling, err)
	}
	trace.TokensUsed = completion.Usage.TotalTokens

	items, err := e.parser.Parse(completion.Text)
	if err != nil {
		return fail(StageParsing, err)
	}

	reports, err := quality.CheckBatch(items)
	if err != nil {
		return fail(StageValidating, err)
	}

	trace.Stage = StageSuccess
	trace.Duration = e.now().Sub(started)
	return trace, items, reports, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetryable reports whether err is one the retry loop would retry
func IsRetryable(err error) bool {
	var invalid *InvalidRequestError
	if errors.As(err, &invalid) {
		return false
	}
	var cfg *llm.ConfigurationError
	if errors.As(err, &cfg) {
		return false
	}
	return !errors.Is(err, context.Canceled)
}
