package checkout

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jafarshop/storefront/internal/domain"
)

// Form holds every input of the checkout page
type Form struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`

	ShippingMethod domain.ShippingMethodID `json:"shippingMethod"`
	PaymentMethod  domain.PaymentMethod    `json:"paymentMethod"`

	CardNumber    string `json:"cardNumber"`
	CardName      string `json:"cardName"`
	ExpiryDate    string `json:"expiryDate"`
	CVC           string `json:"cvc"`
	PayPalEmail   string `json:"paypalEmail"`
	WalletAddress string `json:"walletAddress"`

	SaveInfo bool `json:"saveInfo"`
}

// DefaultForm returns the form as it looks when the page mounts
func DefaultForm() Form {
	return Form{
		Country:        "US",
		ShippingMethod: domain.ShippingStandard,
		PaymentMethod:  domain.PaymentMethodCreditCard,
	}
}

// FormPatch carries the fields a client edited. Nil fields are left alone.
type FormPatch struct {
	FirstName      *string                  `json:"firstName"`
	LastName       *string                  `json:"lastName"`
	Email          *string                  `json:"email"`
	Phone          *string                  `json:"phone"`
	Address        *string                  `json:"address"`
	City           *string                  `json:"city"`
	State          *string                  `json:"state"`
	PostalCode     *string                  `json:"postalCode"`
	Country        *string                  `json:"country"`
	ShippingMethod *domain.ShippingMethodID `json:"shippingMethod"`
	PaymentMethod  *domain.PaymentMethod    `json:"paymentMethod"`
	CardNumber     *string                  `json:"cardNumber"`
	CardName       *string                  `json:"cardName"`
	ExpiryDate     *string                  `json:"expiryDate"`
	CVC            *string                  `json:"cvc"`
	PayPalEmail    *string                  `json:"paypalEmail"`
	WalletAddress  *string                  `json:"walletAddress"`
	SaveInfo       *bool                    `json:"saveInfo"`
}

// Check rejects enum values outside the catalogs
func (p FormPatch) Check() ValidationErrors {
	errs := ValidationErrors{}
	if p.ShippingMethod != nil {
		if _, ok := domain.LookupShippingMethod(*p.ShippingMethod); !ok {
			errs["shippingMethod"] = "Unknown shipping method"
		}
	}
	if p.PaymentMethod != nil && *p.PaymentMethod != "" && !p.PaymentMethod.IsKnown() {
		errs["paymentMethod"] = "Unsupported payment method"
	}
	return errs
}

// Apply copies the set fields onto the form and returns their names
func (f *Form) Apply(p FormPatch) []string {
	var edited []string
	set := func(name string, dst *string, src *string) {
		if src == nil {
			return
		}
		*dst = *src
		edited = append(edited, name)
	}

	set("firstName", &f.FirstName, p.FirstName)
	set("lastName", &f.LastName, p.LastName)
	set("email", &f.Email, p.Email)
	set("phone", &f.Phone, p.Phone)
	set("address", &f.Address, p.Address)
	set("city", &f.City, p.City)
	set("state", &f.State, p.State)
	set("postalCode", &f.PostalCode, p.PostalCode)
	set("country", &f.Country, p.Country)
	set("cardName", &f.CardName, p.CardName)
	set("expiryDate", &f.ExpiryDate, p.ExpiryDate)
	set("cvc", &f.CVC, p.CVC)
	set("paypalEmail", &f.PayPalEmail, p.PayPalEmail)
	set("walletAddress", &f.WalletAddress, p.WalletAddress)

	if p.CardNumber != nil {
		f.CardNumber = FormatCardNumber(*p.CardNumber)
		edited = append(edited, "cardNumber")
	}
	if p.ShippingMethod != nil {
		f.ShippingMethod = *p.ShippingMethod
		edited = append(edited, "shippingMethod")
	}
	if p.PaymentMethod != nil {
		f.PaymentMethod = *p.PaymentMethod
		edited = append(edited, "paymentMethod")
	}
	if p.SaveInfo != nil {
		f.SaveInfo = *p.SaveInfo
		edited = append(edited, "saveInfo")
	}

	return edited
}

// Prefill overwrites the shipping fields from a saved profile
func (f *Form) Prefill(p *domain.Profile) {
	f.FirstName = p.FirstName
	f.LastName = p.LastName
	if p.Email != "" {
		f.Email = p.Email
	}
	f.Phone = p.Phone
	f.Address = p.Address.Street
	f.City = p.Address.City
	f.State = p.Address.State
	f.PostalCode = p.Address.PostalCode
	if p.Address.Country != "" {
		f.Country = p.Address.Country
	}
}

// ShippingAddress extracts the postal address
func (f Form) ShippingAddress() domain.Address {
	return domain.Address{
		Street:     strings.TrimSpace(f.Address),
		City:       strings.TrimSpace(f.City),
		State:      strings.TrimSpace(f.State),
		PostalCode: strings.TrimSpace(f.PostalCode),
		Country:    strings.TrimSpace(f.Country),
	}
}

// CustomerName joins first and last name
func (f Form) CustomerName() string {
	return strings.TrimSpace(strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName))
}

// ToProfile builds the saved profile for a user
func (f Form) ToProfile(userID uuid.UUID) *domain.Profile {
	return &domain.Profile{
		UserID:    userID,
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Phone:     strings.TrimSpace(f.Phone),
		Address:   f.ShippingAddress(),
	}
}

// PaymentAuthorization remembers a successful charge so a retried submit
// after a persistence failure does not charge again
type PaymentAuthorization struct {
	Method      domain.PaymentMethod `json:"method"`
	Amount      string               `json:"amount"`
	Fingerprint string               `json:"fingerprint"`
	Reference   string               `json:"reference"`
}

// Matches reports whether the authorization covers this form and amount
func (a *PaymentAuthorization) Matches(form Form, amount string) bool {
	return a != nil &&
		a.Method == form.PaymentMethod &&
		a.Amount == amount &&
		a.Fingerprint == PaymentFingerprint(form)
}

// Session is the server-side state of one checkout page
type Session struct {
	ID        string                `json:"id"`
	UserID    *uuid.UUID            `json:"userId,omitempty"`
	Step      domain.Step           `json:"step"`
	Form      Form                  `json:"form"`
	Items     []domain.CartItem     `json:"items"`
	Errors    ValidationErrors      `json:"errors"`
	Payment   *PaymentAuthorization `json:"payment,omitempty"`
	OrderID   string                `json:"orderId,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// OwnedBy reports whether the user may act on the session.
// Guest sessions are reachable by anyone holding the id.
func (s *Session) OwnedBy(user *domain.User) bool {
	if s.UserID == nil {
		return true
	}
	return user != nil && user.ID == *s.UserID
}
