package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/logger"
)

// worker owns the goroutine of a periodic job: it runs fn on every tick
// and on every manual trigger until Stop or ctx cancellation.
type worker struct {
	name     string
	interval time.Duration
	trigger  <-chan struct{} // may be nil
	logger   logger.Logger

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newWorker(name string, interval time.Duration, trigger <-chan struct{}, log logger.Logger) *worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &worker{
		name:     name,
		interval: interval,
		trigger:  trigger,
		logger:   log,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (w *worker) run(ctx context.Context, fn func(context.Context) error) {
	ticker := time.NewTicker(w.interval)
	go func() {
		defer close(w.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					w.logger.Error(w.name+" failed", logger.Error(err))
				}
			case <-w.trigger:
				w.logger.Info("manual " + w.name + " triggered")
				if err := fn(ctx); err != nil {
					w.logger.Error(w.name+" failed", logger.Error(err))
				}
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// stop ends the loop and waits for it. Safe to call more than once, and
// before run.
func (w *worker) stop(started bool) {
	w.stopOnce.Do(func() { close(w.stopCh) })
	if started {
		<-w.done
	}
}
