/**
 * @description
 * HTTP client for the external payment processor's subscription-check
 * endpoint. One call, one answer: is this email subscribed, and until
 * when. Failures are returned to the caller, which decides whether to
 * fall back to local flags.
 */
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

// Client talks to the payment processor.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client for the processor at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CheckSubscription asks the processor whether the account behind email
// has an active subscription.
func (c *Client) CheckSubscription(ctx context.Context, email string) (*domain.BillingStatus, error) {
	endpoint := fmt.Sprintf("%s/v1/subscriptions/check?email=%s", c.baseURL, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Unknown email means no subscription, not an outage.
		return &domain.BillingStatus{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("billing check failed with status %d", resp.StatusCode)
	}

	var status domain.BillingStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decoding billing response: %w", err)
	}
	return &status, nil
}
