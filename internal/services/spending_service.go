package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendmcp/internal/amqp"
	"spendmcp/internal/core"
	"spendmcp/internal/storage"
)

// EventPublisher emits expense mutation events. *amqp.Client satisfies it;
// a nil publisher disables events entirely.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error
}

// SpendingService fronts the store for the tool handlers and notifies the
// payment-processing side of expense mutations. Event publishing is
// best-effort: the local write is the source of truth and a publish failure
// never fails the operation.
type SpendingService struct {
	store  *storage.Store
	events EventPublisher
}

func NewSpendingService(store *storage.Store, events EventPublisher) *SpendingService {
	return &SpendingService{
		store:  store,
		events: events,
	}
}

func (s *SpendingService) ListCategories(ctx context.Context) ([]core.CategoryWithSpend, error) {
	return s.store.ListCategories(ctx)
}

func (s *SpendingService) CreateCategory(ctx context.Context, nc core.NewCategory) (int64, error) {
	id, err := s.store.CreateCategory(ctx, nc)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	return id, nil
}

func (s *SpendingService) ListExpenses(ctx context.Context, f core.ExpenseFilter) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, f)
}

func (s *SpendingService) CreateExpense(ctx context.Context, ne core.NewExpense) (int64, error) {
	id, err := s.store.CreateExpense(ctx, ne)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	s.publish(ctx, amqp.NewExpenseEventMessage(amqp.EventExpenseCreated, id, string(core.StatusPending)))
	return id, nil
}

func (s *SpendingService) GetExpense(ctx context.Context, id int64) (*core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

func (s *SpendingService) UpdateExpense(ctx context.Context, id int64, u core.ExpenseUpdate) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateExpense(ctx, id, u); err != nil {
		return err
	}

	status := ""
	if u.Status != nil {
		status = string(*u.Status)
	}
	s.publish(ctx, amqp.NewExpenseEventMessage(amqp.EventExpenseUpdated, id, status))
	return nil
}

func (s *SpendingService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, amqp.NewExpenseEventMessage(amqp.EventExpenseDeleted, id, ""))
	return nil
}

func (s *SpendingService) SpendingSummary(ctx context.Context) (core.SpendingSummary, error) {
	return s.store.SpendingSummary(ctx)
}

func (s *SpendingService) publish(ctx context.Context, msg *amqp.ExpenseEventMessage) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"event", msg.Event,
			"expense_id", msg.ExpenseID,
			"error", err)
	}
}
