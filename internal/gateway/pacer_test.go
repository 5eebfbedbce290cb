package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_FirstRequestIsImmediate(t *testing.T) {
	p := newPacer(time.Hour)
	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestPacer_SpacesRequests(t *testing.T) {
	p := newPacer(50 * time.Millisecond)
	require.NoError(t, p.Wait(context.Background()))
	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestPacer_ZeroDelayNeverWaits(t *testing.T) {
	p := newPacer(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestPacer_HonoursContext(t *testing.T) {
	p := newPacer(time.Hour)
	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, p.Wait(ctx))
}

func TestPacer_DelayCountsFromResponseEnd(t *testing.T) {
	p := newPacer(50 * time.Millisecond)
	require.NoError(t, p.Wait(context.Background()))
	// a response slower than the delay must not let the next request through early
	time.Sleep(80 * time.Millisecond)
	p.Done()

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestPacer_DoneWithoutDelay(t *testing.T) {
	p := newPacer(0)
	p.Done()
	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}
