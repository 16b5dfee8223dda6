package eventconsumers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rwilkes/optrack/src/eventmodels"
	"github.com/rwilkes/optrack/src/eventpubsub"
	"github.com/rwilkes/optrack/src/eventservices"
	"github.com/rwilkes/optrack/src/recognition"
)

// PortfolioMonitoringWorker reconciles the portfolio on a fixed interval. A
// tick that arrives while the previous pass is still running is skipped, so
// at most one reconciliation is in flight per portfolio. Recognition
// failures are logged and retried on the next tick.
type PortfolioMonitoringWorker struct {
	wg       *sync.WaitGroup
	client   *eventservices.PortfolioClient
	interval time.Duration

	inFlight sync.Mutex

	mu         sync.RWMutex
	lastResult *eventmodels.LiveDeltasResult
	lastRunAt  time.Time
	lastErr    error
}

func NewPortfolioMonitoringWorker(wg *sync.WaitGroup, client *eventservices.PortfolioClient, interval time.Duration) *PortfolioMonitoringWorker {
	return &PortfolioMonitoringWorker{
		wg:       wg,
		client:   client,
		interval: interval,
	}
}

func (w *PortfolioMonitoringWorker) Start(ctx context.Context) {
	w.wg.Add(1)

	timer := time.NewTicker(w.interval)

	go func() {
		defer w.wg.Done()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("stopping PortfolioMonitoringWorker consumer")
				return
			case <-timer.C:
				w.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce performs a single reconciliation pass. It returns immediately if a
// pass is already in flight.
func (w *PortfolioMonitoringWorker) RunOnce(ctx context.Context) {
	if !w.inFlight.TryLock() {
		log.Warn("PortfolioMonitoringWorker.RunOnce: previous pass still running, skipping tick")
		eventpubsub.Publish(eventpubsub.ReconciliationSkippedEvent, time.Now())
		return
	}
	defer w.inFlight.Unlock()

	result, err := w.runPass(ctx)

	w.mu.Lock()
	w.lastRunAt = time.Now()
	w.lastErr = err
	if result != nil {
		w.lastResult = result
	}
	w.mu.Unlock()
}

// runPass opens a recognition session and runs the order pass followed by
// the position snapshot pass. The order result is returned even when the
// snapshot pass fails afterwards.
func (w *PortfolioMonitoringWorker) runPass(ctx context.Context) (*eventmodels.LiveDeltasResult, error) {
	if err := w.client.Recognition.Login(ctx); err != nil {
		return nil, fmt.Errorf("PortfolioMonitoringWorker.runPass: failed to log in: %w", err)
	}

	defer func() {
		if err := w.client.Recognition.Logout(ctx); err != nil {
			log.Warnf("PortfolioMonitoringWorker.runPass: failed to log out: %v", err)
		}
	}()

	result, err := w.client.GetLiveDeltasFromOrders(ctx)
	if err != nil {
		log.Errorf("PortfolioMonitoringWorker.runPass: order reconciliation failed: %v", err)
		eventpubsub.Publish(eventpubsub.ReconciliationFailedEvent, eventpubsub.ReconciliationFailed{
			Path: "orders",
			Err:  err,
		})
		return nil, err
	}

	if result.SkippedOrderDueToLowConfidence {
		log.Warn("PortfolioMonitoringWorker.runPass: at least one order was skipped due to low confidence")
	}

	if result.Deltas.Len() > 0 {
		log.Infof("PortfolioMonitoringWorker.runPass: computed %d position deltas from orders", result.Deltas.Len())
	}

	if err := w.reconcilePositions(ctx); err != nil {
		return result, err
	}

	return result, nil
}

// reconcilePositions runs the snapshot pass when the recognition source can
// produce a full position list. Broker API sources cannot; they report
// ErrPositionsNotSupported and the pass is skipped.
func (w *PortfolioMonitoringWorker) reconcilePositions(ctx context.Context) error {
	deltas, err := w.client.GetLiveDeltasFromPositions(ctx)
	if err != nil {
		if errors.Is(err, recognition.ErrPositionsNotSupported) {
			return nil
		}

		log.Errorf("PortfolioMonitoringWorker.reconcilePositions: position reconciliation failed: %v", err)
		eventpubsub.Publish(eventpubsub.ReconciliationFailedEvent, eventpubsub.ReconciliationFailed{
			Path: "positions",
			Err:  err,
		})
		return err
	}

	if deltas.Len() > 0 {
		log.Infof("PortfolioMonitoringWorker.reconcilePositions: computed %d position deltas from snapshot", deltas.Len())
	}

	return nil
}

// LastRun reports the outcome of the most recent pass.
func (w *PortfolioMonitoringWorker) LastRun() (*eventmodels.LiveDeltasResult, time.Time, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.lastResult, w.lastRunAt, w.lastErr
}
