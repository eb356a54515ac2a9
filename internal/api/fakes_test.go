package api

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/pkg/errors"
)

type memUsers struct {
	byToken map[string]*domain.User
}

func (m *memUsers) GetByAPIToken(_ context.Context, token string) (*domain.User, error) {
	u, ok := m.byToken[token]
	if !ok {
		return nil, &errors.ErrUnauthorized{Message: "invalid API token"}
	}
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range m.byToken {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "user", ID: id.String()}
}

func (m *memUsers) Create(context.Context, *domain.User) error { return nil }

type memProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile
}

func (m *memProfiles) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "profile", ID: userID.String()}
	}
	return p, nil
}

func (m *memProfiles) Upsert(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = p
	return nil
}

type memOrders struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	createErr error
}

func (m *memOrders) Create(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	o.ID = uuid.NewString()
	m.orders[o.ID] = o
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id}
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) filter(keep func(*domain.Order) bool, limit, offset int) []*domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Order
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memOrders) ListByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	return m.filter(func(o *domain.Order) bool { return o.UserID != nil && *o.UserID == userID }, limit, offset), nil
}

func (m *memOrders) ListByStatus(_ context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	return m.filter(func(o *domain.Order) bool { return o.Status == status }, limit, offset), nil
}

func (m *memOrders) List(_ context.Context, limit, offset int) ([]*domain.Order, error) {
	return m.filter(func(*domain.Order) bool { return true }, limit, offset), nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id}
	}
	if o.Status != from {
		return &errors.ErrInvalidStateTransition{From: string(o.Status), To: string(to)}
	}
	o.Status = to
	return nil
}

func (m *memOrders) Stats(context.Context) (*domain.OrderStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.OrderStats{Revenue: decimal.Zero, ByStatus: map[domain.OrderStatus]int{}}
	for _, o := range m.orders {
		stats.OrderCount++
		stats.ByStatus[o.Status]++
		if o.Status != domain.OrderStatusCancelled {
			stats.Revenue = stats.Revenue.Add(o.Totals.Total)
		}
	}
	return stats, nil
}

type memEvents struct {
	mu     sync.Mutex
	events []*domain.OrderEvent
}

func (m *memEvents) Create(_ context.Context, e *domain.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memEvents) ListByOrderID(_ context.Context, orderID string) ([]*domain.OrderEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.OrderEvent
	for _, e := range m.events {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

type testUsers struct {
	shopper *domain.User
	other   *domain.User
	admin   *domain.User
}

func newMemRepos() (*repository.Repositories, *memOrders, testUsers) {
	users := testUsers{
		shopper: &domain.User{ID: uuid.New(), Email: "jane@example.com", IsActive: true},
		other:   &domain.User{ID: uuid.New(), Email: "sam@example.com", IsActive: true},
		admin:   &domain.User{ID: uuid.New(), Email: "admin@example.com", IsActive: true, IsAdmin: true},
	}
	orders := &memOrders{orders: make(map[string]*domain.Order)}
	return &repository.Repositories{
		User: &memUsers{byToken: map[string]*domain.User{
			"shopper-token": users.shopper,
			"other-token":   users.other,
			"admin-token":   users.admin,
		}},
		Profile:    &memProfiles{profiles: make(map[uuid.UUID]*domain.Profile)},
		Order:      orders,
		OrderEvent: &memEvents{},
	}, orders, users
}
