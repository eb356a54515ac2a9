package checkout

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
)

const maxCardDigits = 16

// DigitsOnly strips everything that is not 0-9
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber groups up to sixteen digits in blocks of four
func FormatCardNumber(s string) string {
	digits := DigitsOnly(s)
	if len(digits) > maxCardDigits {
		digits = digits[:maxCardDigits]
	}

	var parts []string
	for i := 0; i < len(digits); i += 4 {
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		parts = append(parts, digits[i:end])
	}
	return strings.Join(parts, " ")
}

// MaskCardNumber keeps the last four digits
func MaskCardNumber(s string) string {
	digits := DigitsOnly(s)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("•", len(digits)-4) + digits[len(digits)-4:]
}

// PaymentSummary is the human-readable payment line stored on the order
func PaymentSummary(form Form) string {
	switch form.PaymentMethod {
	case domain.PaymentMethodCreditCard:
		digits := DigitsOnly(form.CardNumber)
		if len(digits) >= 4 {
			return fmt.Sprintf("card ending %s", digits[len(digits)-4:])
		}
		return "card"
	case domain.PaymentMethodPayPal:
		return fmt.Sprintf("PayPal %s", strings.TrimSpace(form.PayPalEmail))
	case domain.PaymentMethodCoinbaseWallet:
		return "Coinbase Wallet"
	default:
		return string(form.PaymentMethod)
	}
}

// PaymentFingerprint identifies the instrument selected on the form without
// keeping its details. Any change to the card, expiry, PayPal email or wallet
// changes the fingerprint.
func PaymentFingerprint(form Form) string {
	var parts []string
	switch form.PaymentMethod {
	case domain.PaymentMethodCreditCard:
		parts = []string{DigitsOnly(form.CardNumber), strings.TrimSpace(form.ExpiryDate), strings.TrimSpace(form.CardName)}
	case domain.PaymentMethodPayPal:
		parts = []string{strings.ToLower(strings.TrimSpace(form.PayPalEmail))}
	default:
		parts = []string{strings.TrimSpace(form.WalletAddress)}
	}

	sum := sha256.Sum256([]byte(string(form.PaymentMethod) + "|" + strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
