package fine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper raises fine records for overdue borrows that have none yet
type Sweeper interface {
	Sweep(now time.Time) (int, error)
}

// Worker periodically runs the fine sweep
type Worker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	sweeper  Sweeper
	logger   *logrus.Entry
	interval time.Duration
}

// WorkerConfig holds the configuration for the fine sweep worker
type WorkerConfig struct {
	Sweeper     Sweeper
	Logger      *logrus.Entry
	IntervalSec int
}

// NewWorker creates a new fine sweep worker
func NewWorker(cfg *WorkerConfig) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		ctx:      ctx,
		cancel:   cancel,
		sweeper:  cfg.Sweeper,
		logger:   cfg.Logger.WithField("component", "fine-sweep-worker"),
		interval: time.Duration(cfg.IntervalSec) * time.Second,
	}
}

// Start runs an initial sweep, then sweeps on the configured interval
func (w *Worker) Start() {
	w.logger.WithField("interval", w.interval).Info("starting")

	go func() {
		w.runOnce()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.runOnce()
			case <-w.ctx.Done():
				w.logger.Info("stopped")
				return
			}
		}
	}()
}

// Stop signals the worker to stop
func (w *Worker) Stop() {
	w.cancel()
}

func (w *Worker) runOnce() {
	created, err := w.sweeper.Sweep(time.Now())
	if err != nil {
		w.logger.WithError(err).Error("sweep failed")
		return
	}
	if created > 0 {
		w.logger.WithField("created", created).Info("raised fines for overdue borrows")
	}
}
