package baseworker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run(`panic does not stop the worker`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var runs atomic.Int32
		done := make(chan struct{})
		worker := NewInstance("test", 0, time.Millisecond)
		go func() {
			worker.Run(ctx, func(ctx context.Context) {
				if runs.Add(1) == 1 {
					panic("first run fails")
				}
				if runs.Load() == 3 {
					cancel()
				}
			})
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("worker did not stop")
		}
		require.GreaterOrEqual(t, runs.Load(), int32(3))
	})
	t.Run(`cancelled before first run`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var runs atomic.Int32
		NewInstance("test", time.Hour, time.Hour).Run(ctx, func(ctx context.Context) {
			runs.Add(1)
		})
		require.Zero(t, runs.Load())
	})
}
