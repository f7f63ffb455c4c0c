package enhancement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lightwalker/dailydo/internal/llm"
	"github.com/lightwalker/dailydo/internal/parsing"
	"github.com/lightwalker/dailydo/internal/quality"
	"github.com/lightwalker/dailydo/internal/types"
)

// stubClient replays responses in order, repeating the last one
type stubClient struct {
	mu        sync.Mutex
	responses []stubResponse
	prompts   []string
}

type stubResponse struct {
	text string
	err  error
}

func (s *stubClient) Complete(ctx context.Context, prompt string) (*llm.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	r := s.responses[min(len(s.prompts), len(s.responses))-1]
	if r.err != nil {
		return nil, r.err
	}
	return &llm.Completion{Text: r.text, Model: "stub", Usage: llm.Usage{TotalTokens: 100}}, nil
}

func (s *stubClient) Model() string { return "stub-model" }
func (s *stubClient) Close() error  { return nil }

func (s *stubClient) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func item(action string, difficulty int) string {
	return fmt.Sprintf(`{"action": %q, "difficulty": %d, "duration": "5-10 minutes", "timeOfDay": "evening", "category": "reflection", "successCriteria": "One lesson written in the journal", "gamePoints": %d}`,
		action, difficulty, difficulty)
}

func payload(items ...string) string {
	return `{"dailyDoItems": [` + strings.Join(items, ", ") + `]}`
}

func marcusPayload() string {
	return payload(
		item("I write down one setback from today", 4),
		item("I ask myself what this setback can teach me", 5),
		item("I call a friend and tell them the lesson I learned", 7),
	)
}

type recordedSleeps struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func newTestEnhancer(t *testing.T, client llm.Client, opts Options) (*Enhancer, *recordedSleeps) {
	t.Helper()
	e := New(client, zaptest.NewLogger(t), opts)
	sleeps := &recordedSleeps{}
	e.sleep = sleeps.sleep
	return e, sleeps
}

func TestEnhance_MarcusAureliusScenario(t *testing.T) {
	client := &stubClient{responses: []stubResponse{{text: marcusPayload()}}}
	e, sleeps := newTestEnhancer(t, client, DefaultOptions())

	req := types.EnhancementRequest{
		RoleModelName:  "Marcus Aurelius",
		AttributeName:  "Stoic Resilience",
		AbstractMethod: "When facing setbacks, ask what you can learn",
		UserContext:    types.DefaultContext(),
	}
	result := e.Enhance(context.Background(), req)

	require.True(t, result.Success, result.Error)
	require.Len(t, result.DailyDoItems, 3)
	assert.Equal(t, []int{4, 5, 7}, []int{
		result.DailyDoItems[0].Difficulty,
		result.DailyDoItems[1].Difficulty,
		result.DailyDoItems[2].Difficulty,
	})
	for _, it := range result.DailyDoItems {
		assert.Equal(t, it.Difficulty, it.GamePoints)
	}
	assert.Len(t, result.Reports, 3)
	assert.Equal(t, 1, client.calls())
	assert.Zero(t, result.Metadata.RetryCount)
	assert.Equal(t, int64(100), result.Metadata.TokensUsed)
	assert.Equal(t, "stub-model", result.Metadata.Model)
	assert.Empty(t, sleeps.delays)
	assert.Contains(t, client.prompts[0], "When facing setbacks, ask what you can learn")
}

func TestEnhance_RetryBound(t *testing.T) {
	client := &stubClient{responses: []stubResponse{{err: &llm.TransportError{StatusCode: 503}}}}
	e, sleeps := newTestEnhancer(t, client, Options{MaxRetries: 3, RetryDelay: time.Second})

	result := e.Enhance(context.Background(), marcusRequest())

	assert.False(t, result.Success)
	assert.Equal(t, 3, client.calls())
	assert.Equal(t, 2, result.Metadata.RetryCount)
	assert.Len(t, result.Metadata.Attempts, 3)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeps.delays, "backoff grows linearly")

	var transportErr *llm.TransportError
	require.True(t, errors.As(result.Err, &transportErr))
	assert.Contains(t, result.Error, "HTTP 503")
	for _, a := range result.Metadata.Attempts {
		assert.Equal(t, StageCalling, a.Stage)
	}
}

func TestEnhance_RecoversOnRetry(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{text: "{ not json"},
		{text: `{"dailyDoItems": []}`},
		{text: marcusPayload()},
	}}
	e, _ := newTestEnhancer(t, client, DefaultOptions())

	result := e.Enhance(context.Background(), marcusRequest())

	require.True(t, result.Success, result.Error)
	assert.Equal(t, 3, client.calls())
	assert.Equal(t, 2, result.Metadata.RetryCount)
	assert.Equal(t, int64(300), result.Metadata.TokensUsed)
	require.Len(t, result.Metadata.Attempts, 3)
	assert.Equal(t, StageParsing, result.Metadata.Attempts[0].Stage)
	assert.Equal(t, StageParsing, result.Metadata.Attempts[1].Stage)
	assert.Equal(t, StageSuccess, result.Metadata.Attempts[2].Stage)
}

func TestEnhance_QualityRejectionIsRetried(t *testing.T) {
	weak := payload(
		item("I write down one setback", 4),
		`{"action": "Think about resilience", "difficulty": 3, "duration": "5-10 minutes", "timeOfDay": "anytime", "category": "mindset", "successCriteria": "ok"}`,
	)
	client := &stubClient{responses: []stubResponse{{text: weak}}}
	e, _ := newTestEnhancer(t, client, DefaultOptions())

	result := e.Enhance(context.Background(), marcusRequest())

	assert.False(t, result.Success)
	assert.Equal(t, DefaultMaxRetries, client.calls())

	var qualityErr *quality.ValidationError
	require.True(t, errors.As(result.Err, &qualityErr))
	require.Len(t, qualityErr.Failures, 1)
	assert.Equal(t, 1, qualityErr.Failures[0].Index)
	assert.Equal(t, StageValidating, result.Metadata.Attempts[0].Stage)
}

func TestEnhance_SingleItemIsRetried(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{text: payload(item("I write down one setback", 4))},
		{text: marcusPayload()},
	}}
	e, _ := newTestEnhancer(t, client, DefaultOptions())

	result := e.Enhance(context.Background(), marcusRequest())

	require.True(t, result.Success)
	assert.Equal(t, 2, client.calls())
	assert.Equal(t, StageValidating, result.Metadata.Attempts[0].Stage)
}

func TestEnhance_ParseErrorSurfacesOnExhaustion(t *testing.T) {
	client := &stubClient{responses: []stubResponse{{text: "{ not json"}}}
	e, _ := newTestEnhancer(t, client, Options{MaxRetries: 2})

	result := e.Enhance(context.Background(), marcusRequest())

	assert.False(t, result.Success)
	assert.Equal(t, 2, client.calls())
	var parseErr *parsing.JSONParseError
	assert.True(t, errors.As(result.Err, &parseErr))

	var attemptErr *AttemptError
	require.True(t, errors.As(result.Err, &attemptErr))
	assert.Equal(t, 2, attemptErr.Attempt)
}

func TestEnhance_InvalidRequestSkipsLLM(t *testing.T) {
	client := &stubClient{responses: []stubResponse{{text: marcusPayload()}}}
	e, _ := newTestEnhancer(t, client, DefaultOptions())

	req := marcusRequest()
	req.AbstractMethod = ""
	result := e.Enhance(context.Background(), req)

	assert.False(t, result.Success)
	assert.Zero(t, client.calls())
	var invalid *InvalidRequestError
	assert.True(t, errors.As(result.Err, &invalid))
}

func TestEnhance_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &stubClient{responses: []stubResponse{{err: errors.New("connection reset")}}}
	e, _ := newTestEnhancer(t, client, DefaultOptions())
	e.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	result := e.Enhance(ctx, marcusRequest())

	assert.False(t, result.Success)
	assert.Equal(t, 1, client.calls())
	assert.ErrorIs(t, result.Err, context.Canceled)
}

func TestEnhance_CallTimeoutApplied(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	client := &deadlineClient{fn: func(ctx context.Context) {
		deadline, hasDeadline = ctx.Deadline()
	}}
	e, _ := newTestEnhancer(t, client, Options{MaxRetries: 1, CallTimeout: 5 * time.Second})

	before := time.Now()
	_ = e.Enhance(context.Background(), marcusRequest())

	require.True(t, hasDeadline)
	assert.WithinDuration(t, before.Add(5*time.Second), deadline, time.Second)
}

type deadlineClient struct {
	fn func(ctx context.Context)
}

func (d *deadlineClient) Complete(ctx context.Context, _ string) (*llm.Completion, error) {
	d.fn(ctx)
	return &llm.Completion{Text: marcusPayload()}, nil
}
func (d *deadlineClient) Model() string { return "deadline" }
func (d *deadlineClient) Close() error  { return nil }

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&llm.TransportError{StatusCode: 500}))
	assert.True(t, IsRetryable(&parsing.NoValidItemsError{}))
	assert.True(t, IsRetryable(&quality.ValidationError{Message: "low"}))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(&InvalidRequestError{Message: "x"}))
	assert.False(t, IsRetryable(&llm.ConfigurationError{Message: "no key"}))
	assert.False(t, IsRetryable(fmt.Errorf("wrapped: %w", context.Canceled)))
}
