package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/notify"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/metrics"
)

// Reconciler periodically retries remote cancellation of subscriptions
// stuck in canceling, for every subscription kind.
type Reconciler struct {
	services []subscription.Service
	schedule string
	timeout  time.Duration
	notifier notify.Notifier
	logger   *logger.Logger

	mu        sync.Mutex
	scheduler *cron.Cron
	running   bool
	// runMu keeps scheduled and on-demand passes from overlapping
	runMu sync.Mutex
}

// NewReconciler creates a reconciler. schedule uses cron syntax or descriptors such as "@every 15m".
func NewReconciler(schedule string, log *logger.Logger, services ...subscription.Service) *Reconciler {
	return &Reconciler{
		services: services,
		schedule: schedule,
		timeout:  2 * time.Minute,
		notifier: notify.Nop{},
		logger:   log.With("worker", "reconciler"),
	}
}

// WithNotifier sends an alert after every pass that leaves subscriptions canceling
func (r *Reconciler) WithNotifier(n notify.Notifier) *Reconciler {
	r.notifier = notify.OrNop(n)
	return r
}

// Start schedules reconciliation passes. An empty schedule disables the worker.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("reconciler is already running")
	}
	if r.schedule == "" {
		r.logger.Info("Reconciler disabled")
		return nil
	}

	r.scheduler = cron.New()
	_, err := r.scheduler.AddFunc(r.schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		r.RunOnce(runCtx)
	})
	if err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", r.schedule, err)
	}

	r.scheduler.Start()
	r.running = true
	r.logger.With("schedule", r.schedule).Info("Reconciler started")
	return nil
}

// Stop halts scheduling and waits for a running pass to finish
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	<-r.scheduler.Stop().Done()
	r.running = false
	r.logger.Info("Reconciler stopped")
}

// RunOnce reconciles every kind and returns one report per kind
func (r *Reconciler) RunOnce(ctx context.Context) []*subscription.ReconcileReport {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	reports := make([]*subscription.ReconcileReport, 0, len(r.services))
	failed := 0
	for _, svc := range r.services {
		report, err := svc.Reconcile(ctx)
		if err != nil {
			r.logger.WithError(err).With("kind", string(svc.Kind())).Error("Reconciliation failed")
			failed++
			continue
		}
		failed += len(report.Failed)
		reports = append(reports, report)

		if report.Checked > 0 {
			r.logger.WithFields(map[string]interface{}{
				"kind":     report.Kind,
				"checked":  report.Checked,
				"canceled": len(report.Canceled),
				"failed":   len(report.Failed),
			}).Info("Reconciliation pass complete")
		}
	}

	metrics.RecordReconcileRun(failed)
	if failed > 0 {
		r.notifier.Notify(ctx, notify.Event{
			Type:     notify.EventReconcileFailed,
			Priority: notify.PriorityCritical,
			Title:    "Subscriptions still canceling after reconciliation",
			Message:  fmt.Sprintf("%d subscription(s) or kinds could not be reconciled", failed),
			Data:     map[string]interface{}{"reports": reports},
		})
	}
	return reports
}
