package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrJobAlreadyRunning is returned when a job with the same name holds
	// the lock, so a second enqueue of a long sync is rejected instead of
	// doubling the work.
	ErrJobAlreadyRunning = errors.New("job is already running")
)

// DefaultJobTimeout bounds a single job run. Bulk product imports on large
// shops legitimately run for hours, so the bound is generous.
const DefaultJobTimeout = 240 * time.Hour

// Locker guards job names so each named job runs at most once at a time,
// across all instances sharing the lock backend.
type Locker interface {
	// Acquire takes the lock for name, returning false when it is held
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	// Release frees the lock for name
	Release(ctx context.Context, name string) error
}

// RunnerConfig holds configuration for the job runner
type RunnerConfig struct {
	Timeout time.Duration
}

// DefaultRunnerConfig returns default runner configuration
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{Timeout: DefaultJobTimeout}
}

// Runner executes named background jobs with single-flight semantics. The
// job name doubles as the lock key, so enqueueing a sync that is already
// running fails fast with ErrJobAlreadyRunning.
type Runner struct {
	locker Locker
	logger *zap.Logger
	config RunnerConfig
	wg     sync.WaitGroup
}

// NewRunner creates a new job runner
func NewRunner(locker Locker, logger *zap.Logger, config RunnerConfig) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultJobTimeout
	}
	return &Runner{locker: locker, logger: logger, config: config}
}

// Enqueue starts fn in the background under the named lock. It returns
// ErrJobAlreadyRunning without starting anything when the lock is held.
// The job outlives the caller's request context; only the runner timeout
// bounds it.
func (r *Runner) Enqueue(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	acquired, err := r.locker.Acquire(ctx, name, r.config.Timeout)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrJobAlreadyRunning
	}

	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.Timeout)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		defer r.release(name)
		defer r.recover(name)

		r.logger.Info("job started", zap.String("job", name))
		start := time.Now()

		if err := fn(jobCtx); err != nil {
			r.logger.Error("job failed",
				zap.String("job", name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			return
		}

		r.logger.Info("job finished",
			zap.String("job", name),
			zap.Duration("elapsed", time.Since(start)))
	}()

	return nil
}

// Wait blocks until all enqueued jobs have finished
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) release(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.locker.Release(ctx, name); err != nil {
		r.logger.Warn("failed to release job lock",
			zap.String("job", name),
			zap.Error(err))
	}
}

func (r *Runner) recover(name string) {
	if rec := recover(); rec != nil {
		r.logger.Error("job panicked",
			zap.String("job", name),
			zap.Any("panic", rec))
	}
}
