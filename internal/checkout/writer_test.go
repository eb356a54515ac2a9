package checkout

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	apperrors "github.com/jafarshop/storefront/pkg/errors"
)

var guestIDPattern = regexp.MustCompile(`^GUEST-[0-9A-Z]{9}$`)

func submitInput(user *domain.User) SubmitInput {
	items := []domain.CartItem{item("20", 2)}
	return SubmitInput{
		User:    user,
		Form:    validCardForm(),
		Items:   items,
		Totals:  CalculateTotals(items, domain.ShippingStandard, DefaultTaxRate),
		Payment: PaymentResult{Success: true, Reference: "ref-1"},
	}
}

func TestNewGuestOrderID(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Regexp(t, guestIDPattern, NewGuestOrderID())
	}
}

func TestWriter_GuestOrderIsNotPersisted(t *testing.T) {
	repos, orders, _ := newFakeRepos()
	pub := &fakePublisher{}
	w := NewWriter(repos, pub, zap.NewNop())

	id, err := w.Submit(context.Background(), submitInput(nil))
	require.NoError(t, err)

	assert.Regexp(t, guestIDPattern, id)
	assert.Empty(t, orders.created)
	require.Len(t, pub.published, 1)
	assert.Nil(t, pub.published[0].UserID)
	assert.Equal(t, "/orders/"+id, OrderPath(id))
}

func TestWriter_AuthenticatedOrderIsPersisted(t *testing.T) {
	repos, orders, profiles := newFakeRepos()
	pub := &fakePublisher{}
	w := NewWriter(repos, pub, zap.NewNop())
	user := &domain.User{ID: uuid.New(), Email: "jane@example.com"}

	id, err := w.Submit(context.Background(), submitInput(user))
	require.NoError(t, err)

	require.Len(t, orders.created, 1)
	order := orders.created[0]
	assert.Equal(t, id, order.ID)
	assert.Equal(t, user.ID, *order.UserID)
	assert.Equal(t, domain.OrderStatusPlaced, order.Status)
	assert.Equal(t, "Jane Doe", order.CustomerName)
	assert.Equal(t, "card ending 4242", order.PaymentSummary)
	assert.Equal(t, "ref-1", order.PaymentRef)
	assert.Equal(t, "48.19", order.Totals.Total.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	assert.Zero(t, profiles.upserts, "profile is only saved when opted in")
	assert.Len(t, repos.OrderEvent.(*fakeEventRepo).events, 1)
	assert.Len(t, pub.published, 1)
}

func TestWriter_SaveInfoUpdatesProfile(t *testing.T) {
	repos, _, profiles := newFakeRepos()
	w := NewWriter(repos, nil, zap.NewNop())
	user := &domain.User{ID: uuid.New()}

	in := submitInput(user)
	in.Form.SaveInfo = true
	_, err := w.Submit(context.Background(), in)
	require.NoError(t, err)

	require.Equal(t, 1, profiles.upserts)
	saved := profiles.profiles[user.ID]
	assert.Equal(t, "Jane", saved.FirstName)
	assert.Equal(t, "Springfield", saved.Address.City)
}

func TestWriter_ProfileFailureDoesNotFailOrder(t *testing.T) {
	repos, orders, profiles := newFakeRepos()
	profiles.upsertErr = errors.New("db down")
	w := NewWriter(repos, nil, zap.NewNop())

	in := submitInput(&domain.User{ID: uuid.New()})
	in.Form.SaveInfo = true
	_, err := w.Submit(context.Background(), in)

	require.NoError(t, err)
	assert.Len(t, orders.created, 1)
}

func TestWriter_PersistenceFailure(t *testing.T) {
	repos, orders, profiles := newFakeRepos()
	orders.createErr = errors.New("connection reset")
	pub := &fakePublisher{}
	w := NewWriter(repos, pub, zap.NewNop())

	in := submitInput(&domain.User{ID: uuid.New()})
	in.Form.SaveInfo = true
	_, err := w.Submit(context.Background(), in)

	var persistence *apperrors.PersistenceError
	require.ErrorAs(t, err, &persistence)
	assert.Zero(t, profiles.upserts)
	assert.Empty(t, pub.published)
}
