package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/foodfleet/api/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Gateway authorizes payments against an external HTTP payment provider.
type Gateway struct {
	client  HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewGateway creates an HTTP payment gateway authorizer. The client is
// expected to be wrapped in a circuit breaker.
func NewGateway(client HTTPDoer, baseURL string, logger *slog.Logger) *Gateway {
	return &Gateway{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

type authorizationResponse struct {
	Data *Authorization `json:"data"`
}

// Authorize posts the authorization request to the payment provider. A 422
// response is a decline and maps to a submission failure.
func (g *Gateway) Authorize(ctx context.Context, req AuthorizationRequest) (*Authorization, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal authorization request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/authorizations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create authorization request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment gateway: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "payment-gateway")
	}
	defer func() { _ = resp.Body.Close() }()

	var payload authorizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode authorization response: %w", err)
	}
	if payload.Data == nil || payload.Data.AuthorizationID == "" {
		return nil, fmt.Errorf("payment gateway returned an empty authorization")
	}

	g.logger.DebugContext(ctx, "payment authorized",
		slog.String("session_id", req.SessionID),
		slog.String("authorization_id", payload.Data.AuthorizationID),
	)

	return payload.Data, nil
}
