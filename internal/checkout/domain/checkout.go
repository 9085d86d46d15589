package domain

import "time"

// Checkout session status constants. cart_review and details are the two
// interactive steps; submitting, completed, and failed track the order
// submission handshake.
const (
	StatusCartReview = "cart_review"
	StatusDetails    = "details"
	StatusSubmitting = "submitting"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Payment method constants.
const (
	PaymentCreditCard     = "credit-card"
	PaymentPayPal         = "paypal"
	PaymentCashOnDelivery = "cash-on-delivery"
)

// Session represents a checkout flow for one browsing session. A submitted
// form is kept on the session so a failed submission can be retried without
// re-entering details.
type Session struct {
	ID            string        `json:"id"`
	SessionID     string        `json:"session_id"`
	Status        string        `json:"status"`
	Form          *CheckoutForm `json:"form,omitempty"`
	OrderID       string        `json:"order_id,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
	Version       int           `json:"version"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	ExpiresAt     time.Time     `json:"expires_at"`
}

// CheckoutForm is the delivery and payment form collected on the details step.
type CheckoutForm struct {
	DeliveryAddress DeliveryAddress  `json:"deliveryAddress"`
	Payment         PaymentSelection `json:"payment"`
	PromoCode       string           `json:"promoCode,omitempty"`
	AgreedToTerms   bool             `json:"agreedToTerms" validate:"accepted"`
}

// DeliveryAddress is the address portion of the checkout form.
type DeliveryAddress struct {
	Street  string `json:"street" validate:"required,min=5"`
	City    string `json:"city" validate:"required,min=2"`
	State   string `json:"state" validate:"required,min=2"`
	Zip     string `json:"zip" validate:"zip5"`
	Country string `json:"country" validate:"required,min=2"`
}

// PaymentSelection is the payment portion of the checkout form. Card fields
// are required only for the credit-card method; they are never stored beyond
// the submission attempt.
type PaymentSelection struct {
	Method     string `json:"method" validate:"required,oneof=credit-card paypal cash-on-delivery"`
	CardNumber string `json:"cardNumber,omitempty" validate:"required_if=Method credit-card"`
	CardExpiry string `json:"cardExpiry,omitempty" validate:"required_if=Method credit-card"`
	CardCVV    string `json:"cardCvv,omitempty" validate:"required_if=Method credit-card"`
}

// CanProceed reports whether the session may advance from cart review to the
// details step.
func (s *Session) CanProceed() bool {
	return s.Status == StatusCartReview
}

// CanSubmit reports whether a submission may start. A failed session may be
// re-submitted; a submitting or completed one may not.
func (s *Session) CanSubmit() bool {
	return s.Status == StatusDetails || s.Status == StatusFailed
}

// Clone returns an independent copy of the session, form included. Mutating
// the clone never touches the original.
func (s *Session) Clone() *Session {
	cpy := *s
	if s.Form != nil {
		form := *s.Form
		cpy.Form = &form
	}
	return &cpy
}

// Sanitized returns a copy of the form with card details blanked, safe for
// persistence and event payloads.
func (f *CheckoutForm) Sanitized() *CheckoutForm {
	if f == nil {
		return nil
	}
	cpy := *f
	cpy.Payment.CardNumber = ""
	cpy.Payment.CardExpiry = ""
	cpy.Payment.CardCVV = ""
	return &cpy
}

// ValidStatuses returns the set of valid checkout session statuses.
func ValidStatuses() []string {
	return []string{
		StatusCartReview,
		StatusDetails,
		StatusSubmitting,
		StatusCompleted,
		StatusFailed,
	}
}

// IsValidStatus checks whether the given status string is a valid session status.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
