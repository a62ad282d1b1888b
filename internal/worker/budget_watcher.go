package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
	applog "budget/internal/log"
)

// AlertKind classifies what the watcher noticed.
type AlertKind string

const (
	AlertOverBudget  AlertKind = "over_budget"
	AlertNegativeNet AlertKind = "negative_net"
)

// Alert is raised when spending passes a category budget or the net budget
// drops below zero.
type Alert struct {
	Kind     AlertKind
	Category string
	Spent    float64
	Budget   float64
	Net      float64
}

// LedgerReader is the part of the ledger the watcher needs.
type LedgerReader interface {
	TrackSpending(ctx context.Context) ([]core.CategoryTotal, error)
	ViewBudget(ctx context.Context, category string) (float64, bool, error)
	CalculateBudget(ctx context.Context) (float64, error)
}

// BudgetWatcher compares spending against the budgets recorded in the ledger
// whenever the ledger changes.
type BudgetWatcher struct {
	ledger LedgerReader
	notify func(context.Context, Alert)
}

// NewBudgetWatcher creates a watcher. A nil notify logs alerts as warnings.
func NewBudgetWatcher(ledger LedgerReader, notify func(context.Context, Alert)) *BudgetWatcher {
	if notify == nil {
		notify = logAlert
	}
	return &BudgetWatcher{
		ledger: ledger,
		notify: notify,
	}
}

// HandleLedgerChange processes a single change message from AMQP. A returned
// error means the store could not be read and the message should be retried.
func (w *BudgetWatcher) HandleLedgerChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error {
	slog.InfoContext(ctx, "Processing ledger change message",
		"collection", msg.Collection,
		"operation", msg.Operation,
		"category", msg.Category)

	collection, ok := core.ParseCollection(msg.Collection)
	if !ok {
		slog.WarnContext(ctx, "Ignoring ledger change for unknown collection", "collection", msg.Collection)
		return nil
	}

	if (collection == core.Expenses || collection == core.Budgets) && msg.Category != "" {
		spending, err := w.ledger.TrackSpending(ctx)
		if err != nil {
			return fmt.Errorf("track spending: %w", err)
		}
		if err := w.checkCategory(ctx, msg.Category, spending); err != nil {
			return err
		}
	}

	return w.checkNet(ctx)
}

// CheckAll runs a full scan over every category with spending. It backs up
// the message path for changes whose notification was lost.
func (w *BudgetWatcher) CheckAll(ctx context.Context) (int, error) {
	spending, err := w.ledger.TrackSpending(ctx)
	if err != nil {
		return 0, fmt.Errorf("track spending: %w", err)
	}

	checked := 0
	for _, t := range spending {
		if err := ctx.Err(); err != nil {
			return checked, err
		}
		if err := w.checkCategory(ctx, t.Category, spending); err != nil {
			return checked, err
		}
		checked++
	}

	if err := w.checkNet(ctx); err != nil {
		return checked, err
	}
	return checked, nil
}

// RunPeriodic calls CheckAll every interval until ctx is done. A failed scan
// is logged and retried on the next tick.
func (w *BudgetWatcher) RunPeriodic(ctx context.Context, interval time.Duration, logger *applog.Logger) error {
	if logger == nil {
		logger = applog.FromContext(ctx).WithComponent(applog.ComponentWorker)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			checked, err := w.CheckAll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.ErrorContext(ctx, "Periodic budget check failed", applog.FieldError, err)
				continue
			}
			logger.DebugContext(ctx, "Periodic budget check complete", "checked", checked)
		}
	}
}

func (w *BudgetWatcher) checkCategory(ctx context.Context, category string, spending []core.CategoryTotal) error {
	spent, ok := core.TotalFor(spending, category)
	if !ok {
		return nil
	}

	budget, found, err := w.ledger.ViewBudget(ctx, category)
	if err != nil {
		return fmt.Errorf("view budget for %s: %w", category, err)
	}
	if !found || spent <= budget {
		return nil
	}

	w.notify(ctx, Alert{
		Kind:     AlertOverBudget,
		Category: category,
		Spent:    spent,
		Budget:   budget,
	})
	return nil
}

func (w *BudgetWatcher) checkNet(ctx context.Context) error {
	net, err := w.ledger.CalculateBudget(ctx)
	if err != nil {
		return fmt.Errorf("calculate budget: %w", err)
	}
	if net < 0 {
		w.notify(ctx, Alert{Kind: AlertNegativeNet, Net: net})
	}
	return nil
}

func logAlert(ctx context.Context, a Alert) {
	switch a.Kind {
	case AlertOverBudget:
		slog.WarnContext(ctx, "Category over budget",
			"category", a.Category,
			"spent", core.FormatAmount(a.Spent),
			"budget", core.FormatAmount(a.Budget),
			"over_by", core.FormatAmount(a.Spent-a.Budget))
	case AlertNegativeNet:
		slog.WarnContext(ctx, "Net budget is negative", "net", core.FormatAmount(a.Net))
	}
}
