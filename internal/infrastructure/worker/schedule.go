package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler submits jobs to a Pool on cron schedules. A tick that finds the
// queue full is skipped and logged.
type Scheduler struct {
	cron   *cron.Cron
	pool   *Pool
	logger *zap.Logger
}

// NewScheduler creates a scheduler feeding pool. Specs use the standard five
// field cron syntax plus descriptors such as "@every 6h".
func NewScheduler(pool *Pool, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLogger{logger}), cron.WithChain(cron.Recover(cronLogger{logger}))),
		pool:   pool,
		logger: logger,
	}
}

// Add registers a named job on spec
func (s *Scheduler) Add(spec, name string, run Func) error {
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := s.pool.Submit(name, run); err != nil {
			s.logger.Warn("Skipped scheduled job", zap.String("job", name), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.logger.Info("Job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Len returns the number of registered schedules
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start begins firing schedules
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedules and waits for a firing tick to finish submitting
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, zap.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, zap.Error(err), zap.Any("details", keysAndValues))
}
