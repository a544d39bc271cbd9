package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/logging"
)

// DefaultLimit bounds an audit listing when the caller does not choose one.
const DefaultLimit = 50

// Entry is one recorded action in the tenant's trail.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	UserID    string    `json:"user_id"`
}

// Viewer lists recent audit entries for the active tenant.
type Viewer struct {
	api    *api.Client
	logger *slog.Logger
}

// NewViewer constructs an audit viewer on the shared transport.
func NewViewer(apiClient *api.Client, logger *slog.Logger) *Viewer {
	return &Viewer{
		api:    apiClient,
		logger: logging.NewComponentLogger(logger, "audit"),
	}
}

// ListRecent returns up to limit entries, newest first. The service emits
// them oldest first, so the viewer reverses before returning.
//
// A permission failure is not an error here: the trail is a convenience
// view, so on 401 or 403 the viewer logs and returns an empty listing.
func (v *Viewer) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := url.Values{"limit": []string{strconv.Itoa(limit)}}
	var entries []Entry
	if err := v.api.Get(ctx, "/audit", query, &entries); err != nil {
		var remote *api.RemoteError
		if errors.As(err, &remote) && (remote.Status == 401 || remote.Status == 403) {
			v.logger.Warn("audit trail not accessible", logging.Int("status", remote.Status))
			return nil, nil
		}
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
