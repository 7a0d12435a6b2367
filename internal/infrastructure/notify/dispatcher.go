package notify

import (
	"context"
	"time"

	"github.com/shopfront/backend/internal/domain/notification"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/worker"
	"go.uber.org/zap"
)

// DispatcherConfig holds the queue and retry settings of a Dispatcher
type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	SendTimeout time.Duration
	// IdempotencyTTL is how long a sent message ID is remembered
	IdempotencyTTL time.Duration
}

// Dispatcher queues messages and delivers them in the background. A message
// whose ID was already sent is skipped.
type Dispatcher struct {
	provider Provider
	store    shared.IdempotencyStore
	pool     *worker.Pool
	ttl      time.Duration
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher; call Start before sending
func NewDispatcher(provider Provider, store shared.IdempotencyStore, cfg DispatcherConfig, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}
	log = log.Named("notify")
	return &Dispatcher{
		provider: provider,
		store:    store,
		ttl:      cfg.IdempotencyTTL,
		logger:   log,
		pool: worker.NewPool(worker.Config{
			Workers:       cfg.Workers,
			QueueSize:     cfg.QueueSize,
			JobTimeout:    cfg.SendTimeout,
			RetryAttempts: cfg.MaxAttempts - 1,
			RetryDelay:    cfg.BaseBackoff,
			MaxRetryDelay: cfg.MaxBackoff,
		}, log),
	}
}

// Start launches the delivery workers
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info("Notification dispatcher starting", zap.String("provider", d.provider.Name()))
	return d.pool.Start(ctx)
}

// Stop refuses new messages and keeps delivering the queued ones until ctx expires
func (d *Dispatcher) Stop(ctx context.Context) error {
	return d.pool.Stop(ctx)
}

// Send queues msg and reports whether it was accepted
func (d *Dispatcher) Send(ctx context.Context, msg notification.Message) bool {
	log := d.logger.With(
		zap.String("message_id", msg.ID.String()),
		zap.String("kind", msg.Kind),
	)
	if id := logger.GetRequestID(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}

	if len(msg.Recipients) == 0 {
		log.Warn("Dropping message without recipients")
		return false
	}
	if _, err := d.pool.Submit("notify."+msg.Kind, func(ctx context.Context) error {
		return d.deliver(ctx, msg, log)
	}); err != nil {
		log.Warn("Message not queued", zap.Error(err))
		return false
	}
	return true
}

// Stats exposes the queue counters
func (d *Dispatcher) Stats() worker.Stats {
	return d.pool.Stats()
}

// deliver returns an error only when the attempt should be retried
func (d *Dispatcher) deliver(ctx context.Context, msg notification.Message, log *zap.Logger) error {
	key := msg.ID.String()
	sent, err := d.store.IsProcessed(ctx, key)
	if err != nil {
		log.Warn("Idempotency check failed, sending anyway", zap.Error(err))
	}
	if sent {
		log.Debug("Message already sent, skipping")
		return nil
	}

	if err := d.provider.Send(ctx, msg); err != nil {
		if IsPermanent(err) {
			log.Error("Message rejected", zap.Error(err))
			return nil
		}
		return err
	}

	if _, err := d.store.MarkProcessed(ctx, key, d.ttl); err != nil {
		log.Warn("Failed to record sent message", zap.Error(err))
	}
	log.Info("Message sent", zap.Strings("to", msg.Recipients))
	return nil
}

var _ notification.Notifier = (*Dispatcher)(nil)
