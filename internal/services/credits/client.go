package credits

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/logging"
)

// LowBalanceThreshold is the balance below which low-credit messaging
// applies. Enforcement is server-side; this only drives warnings.
const LowBalanceThreshold = 10

// Client reads and tops up the tenant's credit balance.
type Client struct {
	api    *api.Client
	logger *slog.Logger

	mu     sync.Mutex
	amount int
	known  bool
	epoch  uint64
}

// NewClient constructs a credit ledger client on the shared transport.
func NewClient(apiClient *api.Client, logger *slog.Logger) *Client {
	return &Client{
		api:    apiClient,
		logger: logging.NewComponentLogger(logger, "credits"),
	}
}

// Refresh fetches the authoritative balance and caches it for the current
// tenant epoch.
func (c *Client) Refresh(ctx context.Context) (int, error) {
	epoch := c.api.Tenant().Epoch()

	var resp struct {
		Balance int `json:"balance"`
	}
	if err := c.api.Get(ctx, "/usage/balance", nil, &resp); err != nil {
		return 0, fmt.Errorf("refresh balance: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.amount = resp.Balance
	c.known = true
	c.epoch = epoch
	return resp.Balance, nil
}

// Balance returns the cached balance. The second result is false until a
// successful fetch has happened in the current tenant epoch; an unknown
// balance must not render as zero.
func (c *Client) Balance() (int, bool) {
	currentEpoch := c.api.Tenant().Epoch()
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.known || c.epoch != currentEpoch {
		return 0, false
	}
	return c.amount, true
}

// Low reports whether the known balance is below the warning threshold.
// An unknown balance is never low.
func (c *Client) Low() bool {
	amount, known := c.Balance()
	return known && amount < LowBalanceThreshold
}

// TopUp requests a credit top-up. Privileged; the service enforces the role.
// On success the cached balance is invalidated rather than incremented;
// the service is authoritative and the next Refresh picks up the result.
func (c *Client) TopUp(ctx context.Context, amount int) error {
	if amount <= 0 {
		return errors.New("top up: amount must be positive")
	}
	body := map[string]int{"amount": amount}
	if err := c.api.Post(ctx, "/usage/topup", body, nil); err != nil {
		return fmt.Errorf("top up: %w", err)
	}

	c.mu.Lock()
	c.known = false
	c.mu.Unlock()

	c.logger.Debug("top-up accepted", logging.Int("amount", amount))
	return nil
}
