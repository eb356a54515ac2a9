package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
)

const minCardDigits = 12

// PaymentResult is the outcome of one authorization attempt
type PaymentResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// Authorizer forwards an approved-locally payment to a remote gateway
type Authorizer interface {
	Authorize(ctx context.Context, req AuthorizationRequest) (*AuthorizationResponse, error)
}

// AuthorizationRequest is what the remote gateway receives
type AuthorizationRequest struct {
	Method      domain.PaymentMethod `json:"method"`
	Amount      string               `json:"amount"`
	Currency    string               `json:"currency"`
	CardLast4   string               `json:"card_last4,omitempty"`
	PayPalEmail string               `json:"paypal_email,omitempty"`
	Reference   string               `json:"reference"`
}

// AuthorizationResponse is the remote gateway's verdict
type AuthorizationResponse struct {
	Approved  bool   `json:"approved"`
	Reference string `json:"reference"`
	Message   string `json:"message,omitempty"`
}

type Dispatcher struct {
	delay   time.Duration
	gateway Authorizer
	logger  *zap.Logger
}

// NewDispatcher creates a payment dispatcher. A nil gateway keeps
// authorizations fully simulated.
func NewDispatcher(delay time.Duration, gateway Authorizer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		delay:   delay,
		gateway: gateway,
		logger:  logger,
	}
}

// Process authorizes the payment selected on the form
func (d *Dispatcher) Process(ctx context.Context, form Form, amount decimal.Decimal) PaymentResult {
	switch form.PaymentMethod {
	case domain.PaymentMethodCreditCard:
		if err := d.wait(ctx); err != nil {
			return PaymentResult{Error: "payment cancelled"}
		}
		if len(DigitsOnly(form.CardNumber)) < minCardDigits {
			return PaymentResult{Error: "Invalid card number"}
		}
	case domain.PaymentMethodPayPal:
		if err := d.wait(ctx); err != nil {
			return PaymentResult{Error: "payment cancelled"}
		}
		if !strings.Contains(form.PayPalEmail, "@") {
			return PaymentResult{Error: "Invalid PayPal email"}
		}
	default:
		return PaymentResult{Error: "unsupported payment method"}
	}

	reference := "sim_" + uuid.NewString()
	if d.gateway == nil {
		return PaymentResult{Success: true, Reference: reference}
	}

	req := AuthorizationRequest{
		Method:    form.PaymentMethod,
		Amount:    amount.StringFixed(2),
		Currency:  "USD",
		Reference: reference,
	}
	if form.PaymentMethod == domain.PaymentMethodCreditCard {
		digits := DigitsOnly(form.CardNumber)
		req.CardLast4 = digits[len(digits)-4:]
	} else {
		req.PayPalEmail = strings.TrimSpace(form.PayPalEmail)
	}

	resp, err := d.gateway.Authorize(ctx, req)
	if err != nil {
		d.logger.Error("Payment gateway call failed",
			zap.String("method", string(form.PaymentMethod)),
			zap.Error(err),
		)
		return PaymentResult{Error: "payment provider unavailable, try again later"}
	}
	if !resp.Approved {
		msg := resp.Message
		if msg == "" {
			msg = "payment declined"
		}
		return PaymentResult{Error: msg}
	}

	return PaymentResult{Success: true, Reference: resp.Reference}
}

func (d *Dispatcher) wait(ctx context.Context) error {
	if d.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
