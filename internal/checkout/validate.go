package checkout

import (
	"regexp"
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
)

// ValidationErrors maps a form field to the message shown next to it
type ValidationErrors map[string]string

// Empty reports whether there are no errors
func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

// Clear drops the errors for the given fields
func (v ValidationErrors) Clear(fields ...string) {
	for _, f := range fields {
		delete(v, f)
	}
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Validate returns the field errors that block leaving the given step
func Validate(step domain.Step, form Form) ValidationErrors {
	switch step {
	case domain.StepShipping:
		return validateShipping(form)
	case domain.StepPayment:
		return validatePayment(form)
	default:
		return ValidationErrors{}
	}
}

func validateShipping(form Form) ValidationErrors {
	errs := ValidationErrors{}

	required(errs, "firstName", form.FirstName, "First name is required")
	required(errs, "lastName", form.LastName, "Last name is required")
	required(errs, "address", form.Address, "Address is required")
	required(errs, "city", form.City, "City is required")
	required(errs, "postalCode", form.PostalCode, "Postal code is required")

	if !emailPattern.MatchString(form.Email) {
		errs["email"] = "Valid email is required"
	}

	return errs
}

// Only the selected method's fields are checked.
func validatePayment(form Form) ValidationErrors {
	errs := ValidationErrors{}

	switch {
	case form.PaymentMethod == "":
		errs["paymentMethod"] = "Please select a payment method"
	case form.PaymentMethod == domain.PaymentMethodCreditCard:
		required(errs, "cardNumber", form.CardNumber, "Card number is required")
		required(errs, "cardName", form.CardName, "Name on card is required")
		required(errs, "expiryDate", form.ExpiryDate, "Expiry date is required")
		required(errs, "cvc", form.CVC, "CVC is required")
	case form.PaymentMethod == domain.PaymentMethodPayPal:
		if strings.TrimSpace(form.PayPalEmail) == "" || !strings.Contains(form.PayPalEmail, "@") {
			errs["paypalEmail"] = "Valid PayPal email is required"
		}
	case form.PaymentMethod.IsWallet():
		required(errs, "walletAddress", form.WalletAddress, "Wallet address is required")
	default:
		errs["paymentMethod"] = "Unsupported payment method"
	}

	return errs
}

func required(errs ValidationErrors, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = message
	}
}
