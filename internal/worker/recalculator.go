package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recalcRuns = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "trust_recalculation_runs_total",
		Help: "Number of completed trust score recalculation cycles.",
	})
	recalcUpdated = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "trust_recalculation_updated_total",
		Help: "Number of agencies whose trust score changed during recalculation.",
	})
)

type recalculationService interface {
	RecalculateAll(ctx context.Context) (int, error)
}

// Recalculator periodically rescores all agencies so that review activity
// reaches the stored trust scores without waiting for an admin trigger.
type Recalculator struct {
	agencyService recalculationService
	interval      time.Duration

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewRecalculator(agencyService recalculationService, interval time.Duration) *Recalculator {
	return &Recalculator{
		agencyService: agencyService,
		interval:      interval,
	}
}

func (w *Recalculator) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("recalculator is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(runCtx).Error("recalculator stopped", "error", err)
		}
	}()

	return nil
}

func (w *Recalculator) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Recalculator) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *Recalculator) Run(ctx context.Context) error {
	logger(ctx).Info("trust score recalculator started", "interval", w.interval.String())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("trust score recalculator stopped")
			return ctx.Err()
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Recalculator) runOnce(ctx context.Context) {
	updated, err := w.agencyService.RecalculateAll(ctx)
	if err != nil {
		logger(ctx).Error("recalculation cycle failed", "error", err)
		return
	}

	recalcRuns.Inc()
	recalcUpdated.Add(float64(updated))

	if updated > 0 {
		logger(ctx).Info("recalculation cycle completed", "updated", updated)
	}
}
