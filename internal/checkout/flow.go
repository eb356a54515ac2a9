package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/pkg/errors"
)

// SessionStore keeps checkout sessions between requests
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	// Lock claims the session for one read-modify-write. It returns
	// *errors.ErrSessionLocked when another request holds it.
	Lock(ctx context.Context, id string) (unlock func(), err error)
}

// PaymentProcessor authorizes a payment for the given amount
type PaymentProcessor interface {
	Process(ctx context.Context, form Form, amount decimal.Decimal) PaymentResult
}

// OrderSubmitter records an order once payment succeeded
type OrderSubmitter interface {
	Submit(ctx context.Context, in SubmitInput) (string, error)
}

// SubmitResult is returned by a successful submission
type SubmitResult struct {
	OrderID     string
	RedirectURL string
	Totals      domain.Totals
	Duplicate   bool
}

// Flow drives a checkout session through shipping, payment and submission
type Flow struct {
	store    SessionStore
	profiles repository.ProfileRepository
	payments PaymentProcessor
	orders   OrderSubmitter
	taxRate  decimal.Decimal
	logger   *zap.Logger
}

// NewFlow creates a checkout flow
func NewFlow(
	store SessionStore,
	profiles repository.ProfileRepository,
	payments PaymentProcessor,
	orders OrderSubmitter,
	taxRate decimal.Decimal,
	logger *zap.Logger,
) *Flow {
	return &Flow{
		store:    store,
		profiles: profiles,
		payments: payments,
		orders:   orders,
		taxRate:  taxRate,
		logger:   logger,
	}
}

// Totals prices the session's cart with its selected shipping method
func (f *Flow) Totals(s *Session) domain.Totals {
	return CalculateTotals(s.Items, s.Form.ShippingMethod, f.taxRate)
}

// Start opens a session on the shipping step. Authenticated users get the
// form prefilled from their saved profile.
func (f *Flow) Start(ctx context.Context, user *domain.User, items []domain.CartItem) (*Session, error) {
	if errs := checkCart(items); !errs.Empty() {
		return nil, &errors.ValidationError{Step: "cart", Fields: errs}
	}

	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		Step:      domain.StepShipping,
		Form:      DefaultForm(),
		Items:     items,
		Errors:    ValidationErrors{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if user != nil {
		userID := user.ID
		session.UserID = &userID
		session.Form.Email = user.Email
		f.prefill(ctx, session, userID)
	}

	if err := f.store.Save(ctx, session); err != nil {
		f.logger.Error("Failed to save checkout session", zap.Error(err))
		return nil, err
	}

	return session, nil
}

func (f *Flow) prefill(ctx context.Context, session *Session, userID uuid.UUID) {
	if f.profiles == nil {
		return
	}
	profile, err := f.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); !ok {
			f.logger.Warn("Failed to load saved profile", zap.String("user_id", userID.String()), zap.Error(err))
		}
		return
	}
	session.Form.Prefill(profile)
}

// Get loads a session the user may access
func (f *Flow) Get(ctx context.Context, id string, user *domain.User) (*Session, error) {
	session, err := f.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.OwnedBy(user) {
		return nil, &errors.ErrNotFound{Resource: "checkout session", ID: id}
	}
	return session, nil
}

// Update applies edited fields and clears their errors
func (f *Flow) Update(ctx context.Context, id string, user *domain.User, patch FormPatch) (*Session, error) {
	if errs := patch.Check(); !errs.Empty() {
		return nil, &errors.ValidationError{Step: "form", Fields: errs}
	}

	unlock, err := f.store.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := f.Get(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if session.Step == domain.StepConfirmation {
		return nil, &errors.ErrInvalidStateTransition{From: string(session.Step), To: "edit"}
	}

	edited := session.Form.Apply(patch)
	if session.Errors == nil {
		session.Errors = ValidationErrors{}
	}
	session.Errors.Clear(edited...)

	return session, f.save(ctx, session)
}

// Advance moves from shipping to payment when the shipping fields are valid
func (f *Flow) Advance(ctx context.Context, id string, user *domain.User) (*Session, error) {
	unlock, err := f.store.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := f.Get(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if session.Step != domain.StepShipping {
		return nil, &errors.ErrInvalidStateTransition{From: string(session.Step), To: string(domain.StepPayment)}
	}

	errs := Validate(domain.StepShipping, session.Form)
	session.Errors = errs
	if !errs.Empty() {
		if err := f.save(ctx, session); err != nil {
			return nil, err
		}
		return session, &errors.ValidationError{Step: string(domain.StepShipping), Fields: errs}
	}

	session.Step = domain.StepPayment
	return session, f.save(ctx, session)
}

// Back returns from payment to shipping. Entered values are kept.
func (f *Flow) Back(ctx context.Context, id string, user *domain.User) (*Session, error) {
	unlock, err := f.store.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := f.Get(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if session.Step != domain.StepPayment {
		return nil, &errors.ErrInvalidStateTransition{From: string(session.Step), To: string(domain.StepShipping)}
	}

	session.Step = domain.StepShipping
	session.Errors = ValidationErrors{}
	return session, f.save(ctx, session)
}

// Submit validates payment, authorizes it and records the order, in that
// order. Any failure leaves the session on the payment step.
func (f *Flow) Submit(ctx context.Context, id string, user *domain.User) (*SubmitResult, error) {
	unlock, err := f.store.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := f.Get(ctx, id, user)
	if err != nil {
		return nil, err
	}

	totals := f.Totals(session)

	if session.OrderID != "" {
		return &SubmitResult{
			OrderID:     session.OrderID,
			RedirectURL: OrderPath(session.OrderID),
			Totals:      totals,
			Duplicate:   true,
		}, nil
	}
	if session.Step != domain.StepPayment {
		return nil, &errors.ErrInvalidStateTransition{From: string(session.Step), To: "submit"}
	}

	errs := Validate(domain.StepPayment, session.Form)
	session.Errors = errs
	if !errs.Empty() {
		if err := f.save(ctx, session); err != nil {
			return nil, err
		}
		return nil, &errors.ValidationError{Step: string(domain.StepPayment), Fields: errs}
	}

	payment, err := f.authorize(ctx, session, totals)
	if err != nil {
		return nil, err
	}

	// Payment is recorded on the session; stop before writing if the caller went away.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	orderID, err := f.orders.Submit(ctx, SubmitInput{
		User:    user,
		Form:    session.Form,
		Items:   session.Items,
		Totals:  totals,
		Payment: payment,
	})
	if err != nil {
		return nil, err
	}

	session.OrderID = orderID
	session.Step = domain.StepConfirmation
	if err := f.save(context.WithoutCancel(ctx), session); err != nil {
		f.logger.Warn("Failed to mark checkout session submitted", zap.String("session_id", id), zap.Error(err))
	}

	return &SubmitResult{
		OrderID:     orderID,
		RedirectURL: OrderPath(orderID),
		Totals:      totals,
	}, nil
}

// authorize reuses an earlier approval for the same instrument and amount
func (f *Flow) authorize(ctx context.Context, session *Session, totals domain.Totals) (PaymentResult, error) {
	amount := totals.Total.StringFixed(2)
	if p := session.Payment; p.Matches(session.Form, amount) {
		f.logger.Info("Reusing payment authorization",
			zap.String("session_id", session.ID),
			zap.String("reference", p.Reference),
		)
		return PaymentResult{Success: true, Reference: p.Reference}, nil
	}

	result := f.payments.Process(ctx, session.Form, totals.Total)
	if !result.Success {
		f.logger.Info("Payment declined",
			zap.String("session_id", session.ID),
			zap.String("method", string(session.Form.PaymentMethod)),
			zap.String("reason", result.Error),
		)
		return result, &errors.PaymentError{Method: string(session.Form.PaymentMethod), Message: result.Error}
	}

	session.Payment = &PaymentAuthorization{
		Method:      session.Form.PaymentMethod,
		Amount:      amount,
		Fingerprint: PaymentFingerprint(session.Form),
		Reference:   result.Reference,
	}
	if err := f.save(context.WithoutCancel(ctx), session); err != nil {
		f.logger.Warn("Failed to record payment authorization", zap.String("session_id", session.ID), zap.Error(err))
	}

	return result, nil
}

func (f *Flow) save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now()
	if err := f.store.Save(ctx, session); err != nil {
		f.logger.Error("Failed to save checkout session", zap.String("session_id", session.ID), zap.Error(err))
		return err
	}
	return nil
}
