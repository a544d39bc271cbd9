package billing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/logging"
)

// Client requests hosted checkout and billing-portal sessions.
type Client struct {
	api    *api.Client
	logger *slog.Logger
}

// NewClient constructs a billing client on the shared transport.
func NewClient(apiClient *api.Client, logger *slog.Logger) *Client {
	return &Client{
		api:    apiClient,
		logger: logging.NewComponentLogger(logger, "billing"),
	}
}

type sessionResponse struct {
	URL string `json:"url"`
}

// StartCheckout creates a hosted checkout session for buying credits and
// returns the URL to open. Fire-and-forget: credits land asynchronously
// and show up on the next balance refresh.
func (c *Client) StartCheckout(ctx context.Context, email string) (string, error) {
	url, err := c.session(ctx, "/billing/stripe/checkout", email)
	if err != nil {
		return "", fmt.Errorf("start checkout: %w", err)
	}
	c.logger.Info("checkout session created")
	return url, nil
}

// OpenPortal creates a hosted billing-portal session for managing payment
// methods and invoices and returns the URL to open.
func (c *Client) OpenPortal(ctx context.Context, email string) (string, error) {
	url, err := c.session(ctx, "/billing/stripe/portal", email)
	if err != nil {
		return "", fmt.Errorf("open billing portal: %w", err)
	}
	return url, nil
}

func (c *Client) session(ctx context.Context, path, email string) (string, error) {
	body := map[string]string{
		"tenant_id": c.api.Tenant().Snapshot().TenantID,
		"email":     email,
	}
	var resp sessionResponse
	if err := c.api.Post(ctx, path, body, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
