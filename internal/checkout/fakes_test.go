package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/pkg/errors"
)

type fakeOrderRepo struct {
	mu        sync.Mutex
	createErr error
	created   []*domain.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, o *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "order", ID: id}
}

func (f *fakeOrderRepo) ListByUserID(context.Context, uuid.UUID, int, int) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListByStatus(context.Context, domain.OrderStatus, int, int) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) List(context.Context, int, int) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(context.Context, string, domain.OrderStatus, domain.OrderStatus) error {
	return nil
}

func (f *fakeOrderRepo) Stats(context.Context) (*domain.OrderStats, error) {
	return &domain.OrderStats{Revenue: decimal.Zero}, nil
}

type fakeEventRepo struct {
	events []*domain.OrderEvent
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.OrderEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEventRepo) ListByOrderID(context.Context, string) ([]*domain.OrderEvent, error) {
	return f.events, nil
}

type fakeProfileRepo struct {
	profiles  map[uuid.UUID]*domain.Profile
	getErr    error
	upsertErr error
	upserts   int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "profile", ID: userID.String()}
	}
	return p, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p *domain.Profile) error {
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.profiles[p.UserID] = p
	return nil
}

type fakePublisher struct {
	published []*domain.Order
}

func (f *fakePublisher) PublishOrderPlaced(_ context.Context, o *domain.Order) error {
	f.published = append(f.published, o)
	return nil
}

func newFakeRepos() (*repository.Repositories, *fakeOrderRepo, *fakeProfileRepo) {
	orders := &fakeOrderRepo{}
	profiles := newFakeProfileRepo()
	return &repository.Repositories{
		Order:      orders,
		Profile:    profiles,
		OrderEvent: &fakeEventRepo{},
	}, orders, profiles
}

// stubStore is a minimal in-package SessionStore; the real stores live in internal/session
type stubStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	locked   map[string]bool
}

func newStubStore() *stubStore {
	return &stubStore{sessions: make(map[string]*Session), locked: make(map[string]bool)}
}

func (s *stubStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "checkout session", ID: id}
	}
	cp := *sess
	cp.Errors = ValidationErrors{}
	for k, v := range sess.Errors {
		cp.Errors[k] = v
	}
	return &cp, nil
}

func (s *stubStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *stubStore) Lock(_ context.Context, id string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked[id] {
		return nil, &errors.ErrSessionLocked{SessionID: id}
	}
	s.locked[id] = true
	return func() {
		s.mu.Lock()
		delete(s.locked, id)
		s.mu.Unlock()
	}, nil
}

type scriptedPayments struct {
	results []PaymentResult
	calls   int
}

func (p *scriptedPayments) Process(context.Context, Form, decimal.Decimal) PaymentResult {
	p.calls++
	if len(p.results) == 0 {
		return PaymentResult{Success: true, Reference: "ref-default"}
	}
	r := p.results[0]
	if len(p.results) > 1 {
		p.results = p.results[1:]
	}
	return r
}
