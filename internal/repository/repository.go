package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jafarshop/storefront/internal/domain"
)

// UserRepository resolves storefront accounts
type UserRepository interface {
	GetByAPIToken(ctx context.Context, token string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// ProfileRepository reads and writes saved shipping profiles
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

// OrderRepository persists placed orders and their line items
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	// UpdateStatus applies from -> to only if the order is still in from
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
	Stats(ctx context.Context) (*domain.OrderStats, error)
}

// OrderEventRepository records the audit trail of an order
type OrderEventRepository interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
	ListByOrderID(ctx context.Context, orderID string) ([]*domain.OrderEvent, error)
}

// Repositories groups every repository the service needs
type Repositories struct {
	User       UserRepository
	Profile    ProfileRepository
	Order      OrderRepository
	OrderEvent OrderEventRepository
}
