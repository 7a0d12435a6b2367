package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopfront/backend/internal/domain/notification"
	"github.com/shopfront/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestDispatcher(t *testing.T, provider Provider, log *zap.Logger) (*Dispatcher, *cache.InMemoryIdempotencyStore) {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	d := NewDispatcher(provider, store, DispatcherConfig{
		Workers:     1,
		QueueSize:   8,
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
		SendTimeout: time.Second,
	}, log)
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() {
		_ = d.Stop(context.Background())
		_ = store.Close()
	})
	return d, store
}

func TestDispatcher_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers and records the message", func(t *testing.T) {
		provider := &fakeProvider{name: "fake"}
		d, store := newTestDispatcher(t, provider, nil)

		msg := testMessage()
		assert.True(t, d.Send(ctx, msg))
		require.Eventually(t, func() bool { return provider.calls() == 1 }, time.Second, time.Millisecond)
		require.Eventually(t, func() bool {
			sent, _ := store.IsProcessed(ctx, msg.ID.String())
			return sent
		}, time.Second, time.Millisecond)
	})

	t.Run("a redelivered message is sent once", func(t *testing.T) {
		provider := &fakeProvider{name: "fake"}
		d, _ := newTestDispatcher(t, provider, nil)

		msg := testMessage()
		require.True(t, d.Send(ctx, msg))
		require.Eventually(t, func() bool { return d.Stats().Succeeded == 1 }, time.Second, time.Millisecond)

		require.True(t, d.Send(ctx, msg))
		require.Eventually(t, func() bool { return d.Stats().Succeeded == 2 }, time.Second, time.Millisecond)
		assert.Equal(t, 1, provider.calls())

		require.True(t, d.Send(ctx, testMessage()))
		require.Eventually(t, func() bool { return provider.calls() == 2 }, time.Second, time.Millisecond)
	})

	t.Run("transient failures are retried", func(t *testing.T) {
		provider := &fakeProvider{name: "fake", errs: []error{errors.New("timeout"), errors.New("timeout")}}
		d, _ := newTestDispatcher(t, provider, nil)

		require.True(t, d.Send(ctx, testMessage()))
		require.Eventually(t, func() bool { return d.Stats().Succeeded == 1 }, 2*time.Second, time.Millisecond)
		assert.Equal(t, 3, provider.calls())
		assert.Equal(t, int64(2), d.Stats().Retried)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		down := errors.New("connection refused")
		provider := &fakeProvider{name: "fake", errs: []error{down, down, down, down}}
		d, _ := newTestDispatcher(t, provider, nil)

		require.True(t, d.Send(ctx, testMessage()))
		require.Eventually(t, func() bool { return d.Stats().Failed == 1 }, 2*time.Second, time.Millisecond)
		assert.Equal(t, 3, provider.calls())
	})

	t.Run("rejected messages are not retried", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		provider := &fakeProvider{name: "fake", errs: []error{Permanent(errors.New("550 no such user"))}}
		d, _ := newTestDispatcher(t, provider, zap.New(core))

		require.True(t, d.Send(ctx, testMessage()))
		require.Eventually(t, func() bool { return logs.FilterMessage("Message rejected").Len() == 1 }, time.Second, time.Millisecond)
		assert.Equal(t, 1, provider.calls())
		assert.Zero(t, d.Stats().Retried)
	})

	t.Run("message without recipients is refused", func(t *testing.T) {
		provider := &fakeProvider{name: "fake"}
		d, _ := newTestDispatcher(t, provider, nil)

		msg := testMessage()
		msg.Recipients = nil
		assert.False(t, d.Send(ctx, msg))
	})

	t.Run("a stopped dispatcher refuses", func(t *testing.T) {
		provider := &fakeProvider{name: "fake"}
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		d := NewDispatcher(provider, store, DispatcherConfig{}, nil)

		assert.False(t, d.Send(ctx, testMessage()))
		assert.Zero(t, provider.calls())
	})
}

type gatedProvider struct {
	fakeProvider
	gate    chan struct{}
	started chan struct{}
	once    sync.Once
}

func (p *gatedProvider) Send(ctx context.Context, msg notification.Message) error {
	p.once.Do(func() {
		close(p.started)
		<-p.gate
	})
	return p.fakeProvider.Send(ctx, msg)
}

func TestDispatcher_StopDeliversQueued(t *testing.T) {
	ctx := context.Background()
	provider := &gatedProvider{
		fakeProvider: fakeProvider{name: "gated"},
		gate:         make(chan struct{}),
		started:      make(chan struct{}),
	}
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	d := NewDispatcher(provider, store, DispatcherConfig{Workers: 1, QueueSize: 8, SendTimeout: time.Second}, nil)
	require.NoError(t, d.Start(ctx))

	require.True(t, d.Send(ctx, testMessage()))
	<-provider.started
	require.True(t, d.Send(ctx, testMessage()))
	require.True(t, d.Send(ctx, testMessage()))

	stopped := make(chan error, 1)
	go func() { stopped <- d.Stop(ctx) }()
	time.Sleep(10 * time.Millisecond)
	close(provider.gate)

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
	assert.Equal(t, 3, provider.calls())
	assert.Zero(t, d.Stats().Dropped)
}
