package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/logging"
)

// Asset is the full editable record for one generated draft. The HTML body
// is treated as an opaque document; the editor never parses or rewrites it.
type Asset struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	HTML    string `json:"html"`
	CTAType string `json:"cta_type"`
	CTAURL  string `json:"cta_url"`
}

// ExportFormat names a downloadable rendering of an asset.
type ExportFormat string

const (
	ExportDOCX ExportFormat = "docx"
	ExportPDF  ExportFormat = "pdf"
)

// Editor drives the load-edit-save cycle for a single asset at a time.
type Editor struct {
	api    *api.Client
	logger *slog.Logger

	mu      sync.Mutex
	current *Asset
}

// NewEditor constructs an asset editor on the shared transport.
func NewEditor(apiClient *api.Client, logger *slog.Logger) *Editor {
	return &Editor{
		api:    apiClient,
		logger: logging.NewComponentLogger(logger, "assets"),
	}
}

// Load fetches the full asset record and makes it the editor's working copy.
func (e *Editor) Load(ctx context.Context, assetID string) (*Asset, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return nil, errors.New("load asset: id is required")
	}

	var asset Asset
	if err := e.api.Get(ctx, "/assets/"+assetID, nil, &asset); err != nil {
		return nil, fmt.Errorf("load asset %s: %w", assetID, err)
	}

	e.mu.Lock()
	working := asset
	e.current = &working
	e.mu.Unlock()

	e.logger.Debug("asset loaded",
		logging.String("asset_id", asset.ID),
		logging.String("type", asset.Type))
	copied := asset
	return &copied, nil
}

// Current returns a copy of the working asset, or false when nothing is
// loaded.
func (e *Editor) Current() (*Asset, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil, false
	}
	copied := *e.current
	return &copied, true
}

// Save writes the complete asset back. Every field is sent on every save,
// including those the caller did not touch; a save without a prior Load is
// an error because the editor would not have a full record to write.
func (e *Editor) Save(ctx context.Context, asset *Asset) error {
	if asset == nil {
		return errors.New("save asset: nothing to save")
	}
	e.mu.Lock()
	loaded := e.current != nil && e.current.ID == asset.ID
	e.mu.Unlock()
	if !loaded {
		return fmt.Errorf("save asset %s: not loaded", asset.ID)
	}

	if err := e.api.Put(ctx, "/assets/"+asset.ID, asset, nil); err != nil {
		return fmt.Errorf("save asset %s: %w", asset.ID, err)
	}

	e.mu.Lock()
	working := *asset
	e.current = &working
	e.mu.Unlock()

	e.logger.Info("asset saved", logging.String("asset_id", asset.ID))
	return nil
}

// ExportURL builds the download URL for a rendered copy of the asset.
// The download itself happens in the browser, carrying no client headers,
// so the URL is the whole contract.
func (e *Editor) ExportURL(assetID string, format ExportFormat) (string, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return "", errors.New("export url: asset id is required")
	}
	switch format {
	case ExportDOCX, ExportPDF:
	default:
		return "", fmt.Errorf("export url: unsupported format %q", format)
	}
	return fmt.Sprintf("%s/export/%s/%s", e.api.BaseURL(), format, assetID), nil
}

var titleCaser = cases.Title(language.English)

// CTALabel renders the call-to-action type as button text. Recognized
// types get curated labels; anything else is shown title-cased as-is.
func CTALabel(ctaType string) string {
	normalized := strings.ToLower(strings.TrimSpace(ctaType))
	switch {
	case strings.Contains(normalized, "webinar") && strings.Contains(normalized, "replay"):
		return "Watch the Webinar Replay"
	case strings.Contains(normalized, "webinar"):
		return "Register for the Webinar"
	case strings.Contains(normalized, "schedule") || strings.Contains(normalized, "call"):
		return "Schedule a Call"
	case strings.Contains(normalized, "offer") || strings.Contains(normalized, "checkout") || strings.Contains(normalized, "buy"):
		return "Claim the Offer"
	case normalized == "":
		return "Learn More"
	default:
		return titleCaser.String(normalized)
	}
}
