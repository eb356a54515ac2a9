package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
)

// GatewayClient talks to a remote payment gateway over HTTP.
// Calls go through a circuit breaker; declines do not count as failures.
type GatewayClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*AuthorizationResponse]
	logger     *zap.Logger
}

// NewGatewayClient creates a new payment gateway client
func NewGatewayClient(cfg config.PaymentConfig, logger *zap.Logger) *GatewayClient {
	baseURL := strings.TrimSuffix(cfg.GatewayURL, "/")

	breaker := gobreaker.NewCircuitBreaker[*AuthorizationResponse](gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &GatewayClient{
		baseURL: baseURL,
		token:   cfg.GatewayToken,
		httpClient: &http.Client{
			Timeout: cfg.GatewayTimeout,
		},
		breaker: breaker,
		logger:  logger,
	}
}

// Authorize posts an authorization request to the gateway
func (c *GatewayClient) Authorize(ctx context.Context, req AuthorizationRequest) (*AuthorizationResponse, error) {
	return c.breaker.Execute(func() (*AuthorizationResponse, error) {
		return c.do(ctx, req)
	})
}

func (c *GatewayClient) do(ctx context.Context, authReq AuthorizationRequest) (*AuthorizationResponse, error) {
	body, err := json.Marshal(authReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/authorizations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", authReq.Reference)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// 402 is a decline, not an outage
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPaymentRequired {
		return nil, fmt.Errorf("payment gateway error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var authResp AuthorizationResponse
	if err := json.Unmarshal(respBody, &authResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &authResp, nil
}
