package branding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/logging"
)

// Defaults applied client-side when the service returns empty fields, so a
// fresh tenant never renders blank.
const (
	DefaultName         = "Your Brand"
	DefaultPrimaryColor = "#0ea5e9"
	DefaultAccentColor  = "#22c55e"
)

// Branding is the tenant's white-label configuration.
type Branding struct {
	Name         string `json:"name"`
	LogoURL      string `json:"logo_url"`
	PrimaryColor string `json:"primary_color"`
	AccentColor  string `json:"accent_color"`
	Domain       string `json:"domain"`
}

// Store reads and replaces the tenant's branding record.
type Store struct {
	api    *api.Client
	logger *slog.Logger

	mu     sync.Mutex
	cached *Branding
	epoch  uint64
}

// NewStore constructs a branding store on the shared transport.
func NewStore(apiClient *api.Client, logger *slog.Logger) *Store {
	return &Store{
		api:    apiClient,
		logger: logging.NewComponentLogger(logger, "branding"),
	}
}

// Load fetches the tenant's branding, filling defaults for any empty
// field, and caches it for the current tenant epoch.
func (s *Store) Load(ctx context.Context) (*Branding, error) {
	epoch := s.api.Tenant().Epoch()

	var b Branding
	if err := s.api.Get(ctx, "/tenant/branding", nil, &b); err != nil {
		return nil, fmt.Errorf("load branding: %w", err)
	}
	applyDefaults(&b)

	s.mu.Lock()
	cached := b
	s.cached = &cached
	s.epoch = epoch
	s.mu.Unlock()

	copied := b
	return &copied, nil
}

// Cached returns the last loaded branding for the current tenant epoch.
func (s *Store) Cached() (*Branding, bool) {
	currentEpoch := s.api.Tenant().Epoch()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil || s.epoch != currentEpoch {
		return nil, false
	}
	copied := *s.cached
	return &copied, true
}

// Save replaces the tenant's branding record whole and updates the cache.
// Privileged; the service enforces the role.
func (s *Store) Save(ctx context.Context, b *Branding) error {
	if b == nil {
		return errors.New("save branding: nothing to save")
	}
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("save branding: name is required")
	}

	if err := s.api.Put(ctx, "/tenant/branding", b, nil); err != nil {
		return fmt.Errorf("save branding: %w", err)
	}

	epoch := s.api.Tenant().Epoch()
	s.mu.Lock()
	cached := *b
	applyDefaults(&cached)
	s.cached = &cached
	s.epoch = epoch
	s.mu.Unlock()

	s.logger.Info("branding saved", logging.String("name", b.Name))
	return nil
}

func applyDefaults(b *Branding) {
	if strings.TrimSpace(b.Name) == "" {
		b.Name = DefaultName
	}
	if strings.TrimSpace(b.PrimaryColor) == "" {
		b.PrimaryColor = DefaultPrimaryColor
	}
	if strings.TrimSpace(b.AccentColor) == "" {
		b.AccentColor = DefaultAccentColor
	}
}
