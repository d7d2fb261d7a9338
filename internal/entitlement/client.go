// Package entitlement calls the external employer-benefits authority that can
// override how an order total is split across wallet, rewards, and cash.
package entitlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aventra-health/benefits-store-backend/pkg/config"
	pkgerrors "github.com/aventra-health/benefits-store-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1024

// Totals carries the order amounts the customer asked to cover with benefits.
type Totals struct {
	OrderTotal       float64 `json:"orderTotal"`
	RequestedWallet  float64 `json:"requestedWallet"`
	RequestedRewards float64 `json:"requestedRewards"`
}

// Item describes one order line for the authority's category-level rules.
type Item struct {
	ProductID        uuid.UUID `json:"productId"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Quantity         int       `json:"quantity"`
	UnitPrice        float64   `json:"unitPrice"`
	WalletEligible   bool      `json:"walletEligible"`
	RewardsEligible  bool      `json:"rewardsEligible"`
	BenefitProgramID *string   `json:"benefitProgramId"`
}

// Request is the validation payload sent to the authority.
type Request struct {
	UserID       uuid.UUID `json:"userId"`
	EmployerID   *string   `json:"employerId"`
	EmployerName *string   `json:"employerName"`
	Totals       Totals    `json:"totals"`
	Items        []Item    `json:"items"`
}

// Decision is the authority's response. Absent amounts fall back to the
// requested values, so pointers distinguish "omitted" from zero.
type Decision struct {
	ApprovedWalletAmount  *float64 `json:"approvedWalletAmount"`
	ApprovedRewardsAmount *float64 `json:"approvedRewardsAmount"`
	ApprovedCashAmount    *float64 `json:"approvedCashAmount"`
}

// Client posts validation requests to the configured authority endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the authority client from configuration. Returns nil when
// no endpoint is configured; callers treat a nil client as "authority absent".
func NewClient(cfg config.EntitlementConfig, opts ...Option) *Client {
	if !cfg.Configured() {
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}

	client := &Client{
		url:        strings.TrimSpace(cfg.ValidateURL),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client
}

// Validate submits the order for benefit validation and returns the raw
// decision. Transport failures, timeouts, non-2xx statuses, and malformed
// bodies all surface as dependency errors.
func (c *Client) Validate(ctx context.Context, req Request) (*Decision, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "entitlement authority not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal validation request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build validation request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute validation request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "validation request failed")
	}

	var decision Decision
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode validation response")
	}

	return &decision, nil
}
