package checkout

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/pkg/errors"
)

const (
	guestIDPrefix = "GUEST-"
	guestIDLength = 9

	// PersistenceFailedMessage is the only text shown for any write failure
	PersistenceFailedMessage = "order failed, try again later"
)

// OrderPublisher announces placed orders to the rest of the system
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error
}

// SubmitInput is everything needed to record an order
type SubmitInput struct {
	User    *domain.User
	Form    Form
	Items   []domain.CartItem
	Totals  domain.Totals
	Payment PaymentResult
}

type Writer struct {
	repos     *repository.Repositories
	publisher OrderPublisher
	logger    *zap.Logger
	guestID   func() string
}

// NewWriter creates a new order writer
func NewWriter(repos *repository.Repositories, publisher OrderPublisher, logger *zap.Logger) *Writer {
	return &Writer{
		repos:     repos,
		publisher: publisher,
		logger:    logger,
		guestID:   NewGuestOrderID,
	}
}

// NewGuestOrderID synthesizes a short random id for orders placed
// without an account. Uniqueness is not guaranteed.
func NewGuestOrderID() string {
	var b strings.Builder
	b.WriteString(guestIDPrefix)
	for i := 0; i < guestIDLength; i++ {
		b.WriteString(strings.ToUpper(strconv.FormatInt(rand.Int64N(36), 36)))
	}
	return b.String()
}

// OrderPath is where the client is sent once the order exists
func OrderPath(orderID string) string {
	return "/orders/" + orderID
}

// Submit records the order and returns its id. Authenticated orders are
// persisted; guest orders only get a local id. The profile save is a
// separate write and may succeed or fail independently of the order.
func (w *Writer) Submit(ctx context.Context, in SubmitInput) (string, error) {
	order := w.buildOrder(in)

	if in.User == nil {
		order.ID = w.guestID()
		w.logger.Info("Guest order placed",
			zap.String("order_id", order.ID),
			zap.String("total", order.Totals.Total.StringFixed(2)),
		)
		w.publish(ctx, order)
		return order.ID, nil
	}

	userID := in.User.ID
	order.UserID = &userID

	if err := w.repos.Order.Create(ctx, order); err != nil {
		w.logger.Error("Failed to create order", zap.String("user_id", userID.String()), zap.Error(err))
		return "", &errors.PersistenceError{Op: "insert order", Err: err}
	}

	event := &domain.OrderEvent{
		OrderID:   order.ID,
		EventType: "order_created",
		EventData: map[string]interface{}{
			"status":          order.Status,
			"total":           order.Totals.Total.StringFixed(2),
			"payment_method":  order.PaymentMethod,
			"shipping_method": order.ShippingMethod,
		},
	}
	if err := w.repos.OrderEvent.Create(ctx, event); err != nil {
		w.logger.Warn("Failed to record order event", zap.String("order_id", order.ID), zap.Error(err))
	}

	if in.Form.SaveInfo {
		if err := w.repos.Profile.Upsert(ctx, in.Form.ToProfile(userID)); err != nil {
			w.logger.Warn("Failed to save shipping profile", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	w.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID.String()),
		zap.String("total", order.Totals.Total.StringFixed(2)),
	)
	w.publish(ctx, order)

	return order.ID, nil
}

func (w *Writer) buildOrder(in SubmitInput) *domain.Order {
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	return &domain.Order{
		Status:          domain.OrderStatusPlaced,
		CustomerName:    in.Form.CustomerName(),
		CustomerEmail:   strings.TrimSpace(in.Form.Email),
		CustomerPhone:   strings.TrimSpace(in.Form.Phone),
		ShippingAddress: in.Form.ShippingAddress(),
		ShippingMethod:  in.Form.ShippingMethod,
		PaymentMethod:   in.Form.PaymentMethod,
		PaymentSummary:  PaymentSummary(in.Form),
		PaymentRef:      in.Payment.Reference,
		Totals:          in.Totals,
		Items:           items,
		CreatedAt:       time.Now(),
	}
}

func (w *Writer) publish(ctx context.Context, order *domain.Order) {
	if w.publisher == nil {
		return
	}
	if err := w.publisher.PublishOrderPlaced(ctx, order); err != nil {
		w.logger.Warn("Failed to publish order placed event", zap.String("order_id", order.ID), zap.Error(err))
	}
}
