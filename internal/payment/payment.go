package payment

import "context"

// AuthorizationRequest describes a payment authorization attempt for one
// order submission. Amount is in cents.
type AuthorizationRequest struct {
	SessionID  string `json:"session_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Method     string `json:"method"`
	CardNumber string `json:"card_number,omitempty"`
	CardExpiry string `json:"card_expiry,omitempty"`
	CardCVV    string `json:"card_cvv,omitempty"`
}

// Authorization is a successful payment authorization.
type Authorization struct {
	AuthorizationID string `json:"authorization_id"`
	Method          string `json:"method"`
}

// Authorizer authorizes payments. Implementations: Simulator for local
// development and tests, Gateway for a real HTTP payment provider.
type Authorizer interface {
	Authorize(ctx context.Context, req AuthorizationRequest) (*Authorization, error)
}
