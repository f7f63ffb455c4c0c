package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_FirstWaitIsImmediate(t *testing.T) {
	p := NewPacer(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Wait(ctx))
}

func TestPacer_IntervalStartsAtDone(t *testing.T) {
	const delay = 60 * time.Millisecond
	p := NewPacer(delay)
	require.NoError(t, p.Wait(context.Background()))

	// a call longer than the interval must not use up the gap
	time.Sleep(2 * delay)
	p.Done()
	finished := time.Now()

	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(finished), delay-5*time.Millisecond)
}

func TestPacer_ZeroDelayNeverBlocks(t *testing.T) {
	p := NewPacer(0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Wait(ctx))
		p.Done()
	}
}

func TestPacer_WaitHonoursCancellation(t *testing.T) {
	p := NewPacer(time.Hour)
	require.NoError(t, p.Wait(context.Background()))
	p.Done()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.Wait(ctx))
}
