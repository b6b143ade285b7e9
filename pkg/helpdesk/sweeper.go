package helpdesk

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/frontdesk/frontdesk/pkg/audit"
	"github.com/frontdesk/frontdesk/pkg/metrics"
)

// ApologyMessage is sent to customers whose request expired unanswered.
const ApologyMessage = "Sorry, we couldn't resolve your question in time. We'll follow up soon."

// ExpiryRoutine periodically moves overdue pending requests to unresolved and
// notifies the affected customers. A sweep failure only delays the next run.
type ExpiryRoutine struct {
	Ledger   *Ledger
	Notifier NotificationPort
	Audit    *audit.Service
	Log      *zap.SugaredLogger

	Interval time.Duration
	// Backoff is the delay after a failed sweep.
	Backoff time.Duration
}

// Run sweeps until ctx is cancelled.
func (r *ExpiryRoutine) Run(ctx context.Context) {
	r.Log.Infow("Starting expiry routine", "interval", r.Interval, "backoff", r.Backoff)
	for {
		delay := r.Interval
		if _, err := r.SweepOnce(ctx); err != nil {
			r.Log.Errorw("Expiry sweep failed", "error", err)
			metrics.SweepErrors.Inc()
			delay = r.Backoff
		}

		select {
		case <-ctx.Done():
			r.Log.Info("Stopping expiry routine")
			return
		case <-time.After(delay):
		}
	}
}

// SweepOnce expires every overdue pending request exactly once and returns
// the requests that were expired during this sweep.
func (r *ExpiryRoutine) SweepOnce(ctx context.Context) ([]HelpRequest, error) {
	metrics.SweepRuns.Inc()

	expired, err := r.Ledger.SweepExpired(ctx)
	if err != nil {
		return nil, err
	}

	for i := range expired {
		req := &expired[i]
		r.Log.Infow("Request expired", RequestFieldsFor(req)...)
		metrics.RequestsExpired.Inc()

		if r.Audit != nil {
			ev := audit.NewEvent(audit.EventRequestExpired)
			ev.Actor = "sweeper"
			ev.RequestID = req.ID
			ev.Details = map[string]any{"question": req.QuestionText}
			r.Audit.Emit(ev)
		}

		customer, err := r.Ledger.CustomerByID(ctx, req.CustomerID)
		if err != nil {
			r.Log.Errorw("Failed to load customer for expiry notice", "requestID", req.ID, "error", err)
			continue
		}
		if customer != nil {
			r.Notifier.NotifyCustomer(ctx, Caller{Name: customer.Name, Phone: customer.Phone}, ApologyMessage)
		}
	}

	return expired, nil
}
