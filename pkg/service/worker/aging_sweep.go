package worker

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/utils/errutil"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
)

// Sweeper runs one aging sweep and returns how many risks were aged
type Sweeper interface {
	RunAgingSweep(ctx context.Context) (int, error)
}

// AgingSweepWorker runs the aging sweep once at startup and then every
// interval. Instances sharing a store are coordinated by the persisted sweep
// watermark, so every instance may run a worker.
type AgingSweepWorker struct {
	sweeper      Sweeper
	interval     time.Duration
	startupSweep bool

	startOnce   sync.Once
	startupOnce sync.Once
	stopOnce    sync.Once
	started     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
}

type Option func(*AgingSweepWorker)

// WithStartupSweep enables or disables the sweep run when the worker starts.
// It is enabled by default.
func WithStartupSweep(enabled bool) Option {
	return func(w *AgingSweepWorker) {
		w.startupSweep = enabled
	}
}

// NewAgingSweepWorker creates a worker. A zero interval disables the
// periodic sweep.
func NewAgingSweepWorker(sweeper Sweeper, interval time.Duration, opts ...Option) *AgingSweepWorker {
	w := &AgingSweepWorker{
		sweeper:      sweeper,
		interval:     interval,
		startupSweep: true,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins the background loop. It does not block server startup.
func (w *AgingSweepWorker) Start(ctx context.Context) error {
	if w.sweeper == nil {
		return goerr.New("sweeper is required")
	}

	w.startOnce.Do(func() {
		w.started = true
		logging.From(ctx).Info("Aging sweep worker starting",
			"interval", w.interval.String())
		go w.run(ctx)
	})
	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *AgingSweepWorker) Stop() {
	w.stopOnce.Do(func() {
		logging.Default().Info("Aging sweep worker stopping")
		close(w.stopCh)
		if w.started {
			<-w.doneCh
		}
		logging.Default().Info("Aging sweep worker stopped")
	})
}

func (w *AgingSweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if w.startupSweep {
		w.startupOnce.Do(func() {
			w.sweep(ctx, "startup")
		})
	}

	if w.interval <= 0 {
		select {
		case <-w.stopCh:
		case <-ctx.Done():
		}
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx, "periodic")

		case <-w.stopCh:
			logging.From(ctx).Info("Aging sweep worker received stop signal")
			return

		case <-ctx.Done():
			logging.From(ctx).Info("Aging sweep worker context cancelled")
			return
		}
	}
}

// sweep runs one cycle. Failures are reported and retried next interval.
func (w *AgingSweepWorker) sweep(ctx context.Context, trigger string) {
	startTime := time.Now()
	aged, err := w.sweeper.RunAgingSweep(ctx)
	if err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(err, "aging sweep failed", goerr.V("trigger", trigger)),
			"Aging sweep failed (will retry next interval)")
		return
	}

	logging.From(ctx).Info("Aging sweep cycle finished",
		"trigger", trigger,
		"aged", aged,
		"duration", time.Since(startTime).String())
}
