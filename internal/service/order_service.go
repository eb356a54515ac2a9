package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/pkg/errors"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// OrderService reads placed orders and moves them through fulfilment
type OrderService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, logger *zap.Logger) *OrderService {
	return &OrderService{
		repos:  repos,
		logger: logger,
	}
}

// Page clamps a limit/offset pair
func Page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetForUser returns an order owned by the user. Orders of other users
// are reported as not found.
func (s *OrderService) GetForUser(ctx context.Context, id string, user *domain.User) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin && (order.UserID == nil || *order.UserID != user.ID) {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id}
	}
	return order, nil
}

// ListForUser returns the user's own orders, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	limit, offset = Page(limit, offset)
	return s.repos.Order.ListByUserID(ctx, userID, limit, offset)
}

// List returns all orders, optionally filtered by status
func (s *OrderService) List(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	limit, offset = Page(limit, offset)
	if status == "" {
		return s.repos.Order.List(ctx, limit, offset)
	}
	return s.repos.Order.ListByStatus(ctx, status, limit, offset)
}

// Stats returns the dashboard aggregates
func (s *OrderService) Stats(ctx context.Context) (*domain.OrderStats, error) {
	return s.repos.Order.Stats(ctx)
}

// UpdateStatus moves an order to a new fulfilment status and records the change
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, actor uuid.UUID) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Validate state transition
	if !order.Status.CanTransitionTo(status) {
		return nil, &errors.ErrInvalidStateTransition{
			From: string(order.Status),
			To:   string(status),
		}
	}

	if err := s.repos.Order.UpdateStatus(ctx, id, order.Status, status); err != nil {
		return nil, err
	}

	// Log event
	event := &domain.OrderEvent{
		OrderID:   id,
		EventType: "status_change",
		EventData: map[string]interface{}{
			"from":  order.Status,
			"to":    status,
			"actor": actor.String(),
		},
	}
	if err := s.repos.OrderEvent.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record order event", zap.String("order_id", id), zap.Error(err))
	}

	s.logger.Info("Order status changed",
		zap.String("order_id", id),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)),
	)

	order.Status = status
	return order, nil
}
