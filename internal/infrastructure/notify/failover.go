package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopfront/backend/internal/domain/notification"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig controls when a provider is taken out of the chain
type BreakerConfig struct {
	// ConsecutiveFailures opens the breaker
	ConsecutiveFailures uint32
	// OpenTimeout is how long an open breaker rejects before probing again
	OpenTimeout time.Duration
}

// DefaultBreakerConfig returns the default breaker settings
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{ConsecutiveFailures: 5, OpenTimeout: time.Minute}
}

type guardedProvider struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
}

// Failover tries providers in order until one accepts the message. Each
// provider sits behind a circuit breaker so that a failing one is skipped
// until its breaker half-opens.
type Failover struct {
	providers []guardedProvider
	logger    *zap.Logger
}

// NewFailover creates a chain over providers; nil entries are ignored
func NewFailover(providers []Provider, cfg BreakerConfig, logger *zap.Logger) (*Failover, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = DefaultBreakerConfig().ConsecutiveFailures
	}
	f := &Failover{logger: logger}
	for _, p := range providers {
		if p == nil {
			continue
		}
		f.providers = append(f.providers, guardedProvider{
			provider: p,
			breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
				Name:        "notify-" + p.Name(),
				MaxRequests: 1,
				Timeout:     cfg.OpenTimeout,
				ReadyToTrip: func(counts gobreaker.Counts) bool {
					return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
				},
				// A rejected message says nothing about the provider's health
				IsSuccessful: func(err error) bool {
					return err == nil || IsPermanent(err)
				},
				OnStateChange: func(name string, from, to gobreaker.State) {
					logger.Warn("Email provider breaker state changed",
						zap.String("breaker", name),
						zap.String("from", from.String()),
						zap.String("to", to.String()),
					)
				},
			}),
		})
	}
	if len(f.providers) == 0 {
		return nil, errors.New("notify: no providers configured")
	}
	return f, nil
}

// Name lists the chain, e.g. "failover(ses>smtp)"
func (f *Failover) Name() string {
	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.provider.Name()
	}
	return "failover(" + strings.Join(names, ">") + ")"
}

// Send returns nil on the first provider that accepts msg. The returned error
// is permanent only when every attempted provider rejected msg permanently.
func (f *Failover) Send(ctx context.Context, msg notification.Message) error {
	var (
		failures     []string
		allPermanent = true
	)
	for _, gp := range f.providers {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := gp.breaker.Execute(func() (any, error) {
			return nil, gp.provider.Send(ctx, msg)
		})
		if err == nil {
			if len(failures) > 0 {
				f.logger.Info("Email sent by fallback provider",
					zap.String("provider", gp.provider.Name()),
					zap.String("message_id", msg.ID.String()),
				)
			}
			return nil
		}

		if !IsPermanent(err) {
			allPermanent = false
		}
		failures = append(failures, gp.provider.Name()+": "+err.Error())
		f.logger.Debug("Email provider failed",
			zap.String("provider", gp.provider.Name()),
			zap.String("message_id", msg.ID.String()),
			zap.Error(err),
		)
	}

	err := fmt.Errorf("notify: all providers failed: %s", strings.Join(failures, "; "))
	if allPermanent {
		return Permanent(err)
	}
	return err
}

// State returns the breaker state of every provider, keyed by name
func (f *Failover) State() map[string]string {
	states := make(map[string]string, len(f.providers))
	for _, gp := range f.providers {
		states[gp.provider.Name()] = gp.breaker.State().String()
	}
	return states
}
