package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestScheduler_Add(t *testing.T) {
	t.Run("invalid spec", func(t *testing.T) {
		s := NewScheduler(NewPool(Config{}, nil), nil)
		err := s.Add("every now and then", "feed-refresh", func(ctx context.Context) error { return nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "feed-refresh")
		assert.Zero(t, s.Len())
	})

	t.Run("fires into the pool", func(t *testing.T) {
		pool := startPool(t, Config{Workers: 1, QueueSize: 4})
		s := NewScheduler(pool, zap.NewNop())

		var runs atomic.Int32
		require.NoError(t, s.Add("@every 10ms", "tick", func(ctx context.Context) error {
			runs.Add(1)
			return nil
		}))
		assert.Equal(t, 1, s.Len())

		s.Start()
		assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
		require.NoError(t, s.Stop(context.Background()))
	})

	t.Run("ticks are skipped while the pool is stopped", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		s := NewScheduler(NewPool(Config{}, nil), zap.New(core))

		require.NoError(t, s.Add("@every 10ms", "tick", func(ctx context.Context) error { return nil }))
		s.Start()
		assert.Eventually(t, func() bool {
			return logs.FilterMessage("Skipped scheduled job").Len() > 0
		}, 2*time.Second, 5*time.Millisecond)
		require.NoError(t, s.Stop(context.Background()))
	})
}
