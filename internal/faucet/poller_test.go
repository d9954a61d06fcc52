package faucet

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoller_RunsImmediatelyAndOnInterval(t *testing.T) {
	var runs atomic.Int32
	p := NewPoller(20*time.Millisecond, func(context.Context) { runs.Add(1) })

	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, p.Running())
}

func TestPoller_StopHaltsTicks(t *testing.T) {
	var runs atomic.Int32
	p := NewPoller(10*time.Millisecond, func(context.Context) { runs.Add(1) })

	p.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop()
	assert.False(t, p.Running())

	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestPoller_ParentCancel(t *testing.T) {
	var seen atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(time.Hour, func(ctx context.Context) {
		<-ctx.Done()
		seen.Store(true)
	})

	p.Start(ctx)
	cancel()
	p.Stop()
	assert.True(t, seen.Load())
}

func TestPoller_RefreshAfter(t *testing.T) {
	var runs atomic.Int32
	p := NewPoller(time.Hour, func(context.Context) { runs.Add(1) })

	assert.False(t, p.RefreshAfter(time.Millisecond), "not running")

	p.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	assert.True(t, p.RefreshAfter(10*time.Millisecond))
	assert.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)

	// A pending refresh is dropped on stop.
	assert.True(t, p.RefreshAfter(time.Hour))
	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on pending refresh")
	}
	assert.Equal(t, int32(2), runs.Load())
}
