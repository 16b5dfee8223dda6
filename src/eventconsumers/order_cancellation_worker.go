package eventconsumers

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// BrokerOrderClient is the slice of the broker API the cancellation worker
// needs.
type BrokerOrderClient interface {
	IsOrderOpen(ctx context.Context, orderID uint) (bool, error)
	CancelOrder(ctx context.Context, orderID uint) error
}

const defaultOrderCheckInterval = 60 * time.Second

// OrderCancellationWorker cancels a working order at its cancel time unless
// a periodic status check observes it closed first. The status check runs
// once per interval, so a fill landing just before the cancel time may
// still trigger a cancel request; the broker rejects cancels on closed
// orders, which is harmless here.
type OrderCancellationWorker struct {
	wg            *sync.WaitGroup
	broker        BrokerOrderClient
	checkInterval time.Duration
}

func NewOrderCancellationWorker(wg *sync.WaitGroup, broker BrokerOrderClient) *OrderCancellationWorker {
	return &OrderCancellationWorker{
		wg:            wg,
		broker:        broker,
		checkInterval: defaultOrderCheckInterval,
	}
}

// ScheduleCancellation watches the order until cancelAt and cancels it if it
// is still open then. The watch ends early when the order closes or ctx is
// done.
func (w *OrderCancellationWorker) ScheduleCancellation(ctx context.Context, orderID uint, cancelAt time.Time) {
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.checkInterval)
		defer ticker.Stop()

		deadline := time.NewTimer(time.Until(cancelAt))
		defer deadline.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Infof("OrderCancellationWorker: stopping watch on order %d", orderID)
				return

			case <-ticker.C:
				open, err := w.broker.IsOrderOpen(ctx, orderID)
				if err != nil {
					log.Warnf("OrderCancellationWorker: failed to check order %d: %v", orderID, err)
					continue
				}

				if !open {
					log.Infof("OrderCancellationWorker: order %d closed before its cancel time", orderID)
					return
				}

			case <-deadline.C:
				open, err := w.broker.IsOrderOpen(ctx, orderID)
				if err != nil {
					log.Warnf("OrderCancellationWorker: failed to check order %d at cancel time, cancelling anyway: %v", orderID, err)
				} else if !open {
					log.Infof("OrderCancellationWorker: order %d closed before its cancel time", orderID)
					return
				}

				if err := w.broker.CancelOrder(ctx, orderID); err != nil {
					log.Errorf("OrderCancellationWorker: failed to cancel order %d: %v", orderID, err)
					return
				}

				log.Infof("OrderCancellationWorker: cancelled order %d", orderID)
				return
			}
		}
	}()
}
