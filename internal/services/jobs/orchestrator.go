package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/logging"
)

// The service consumes one credit per asset draft; the kinds and the default
// call to action are fixed, not configurable.
var assetKinds = []string{"ebook", "checklist", "cheat sheet", "one-page summary"}

const (
	defaultCTAType = "schedule a call"
	defaultCTAURL  = "https://example.com/call"
)

// State is the client-visible job lifecycle. There is no processing state:
// generation is a single request/response and any queueing behind it is the
// service's concern.
type State string

const (
	StateNone      State = "none"
	StateCreated   State = "created"
	StateGenerated State = "generated"
)

// Orchestrator submits videos and drives asset generation for the active
// tenant.
type Orchestrator struct {
	api    *api.Client
	logger *slog.Logger

	mu       sync.Mutex
	jobID    string
	assetIDs []string
	epoch    uint64
}

// NewOrchestrator constructs a job orchestrator on the shared transport.
func NewOrchestrator(apiClient *api.Client, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		api:    apiClient,
		logger: logging.NewComponentLogger(logger, "jobs"),
	}
}

type createResponse struct {
	JobID string `json:"job_id"`
}

// CreateFromURL submits a video by URL. The only client-side check is that
// the field is non-empty; reachability and format are the server's call.
func (o *Orchestrator) CreateFromURL(ctx context.Context, videoURL string) (string, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return "", &api.JobCreationError{Err: errors.New("video url is required")}
	}

	var resp createResponse
	body := map[string]string{"video_url": videoURL}
	if err := o.api.Post(ctx, "/jobs/url", body, &resp); err != nil {
		return "", &api.JobCreationError{Err: err}
	}
	o.adopt(resp.JobID)
	o.logger.Info("job created", logging.String("job_id", resp.JobID), logging.String("source", "url"))
	return resp.JobID, nil
}

// CreateFromUpload submits a video file as a multipart body. No client-side
// size or type validation.
func (o *Orchestrator) CreateFromUpload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if r == nil {
		return "", &api.JobCreationError{Err: errors.New("upload source is required")}
	}

	var resp createResponse
	if err := o.api.PostMultipart(ctx, "/jobs/upload", "file", filename, r, &resp); err != nil {
		return "", &api.JobCreationError{Err: err}
	}
	o.adopt(resp.JobID)
	o.logger.Info("job created", logging.String("job_id", resp.JobID), logging.String("source", "upload"))
	return resp.JobID, nil
}

func (o *Orchestrator) adopt(jobID string) {
	epoch := o.api.Tenant().Epoch()
	o.mu.Lock()
	o.jobID = jobID
	o.assetIDs = nil
	o.epoch = epoch
	o.mu.Unlock()
}

// Restore seeds the orchestrator from previously persisted state.
func (o *Orchestrator) Restore(jobID string, assetIDs []string) {
	epoch := o.api.Tenant().Epoch()
	o.mu.Lock()
	o.jobID = strings.TrimSpace(jobID)
	o.assetIDs = append([]string(nil), assetIDs...)
	o.epoch = epoch
	o.mu.Unlock()
}

// Generate requests the fixed set of derived assets for the given job.
//
// On an insufficient-credit rejection the error carries the remediation URL
// and the job id stays valid: the caller lets the user top up and invokes
// Generate again with the same id. Never retried automatically.
func (o *Orchestrator) Generate(ctx context.Context, jobID string) ([]string, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, errors.New("generate: job id is required")
	}

	body := map[string]any{
		"job_id":      jobID,
		"asset_types": assetKinds,
		"cta_type":    defaultCTAType,
		"cta_url":     defaultCTAURL,
	}
	var resp struct {
		JobID    string   `json:"job_id"`
		AssetIDs []string `json:"asset_ids"`
	}
	if err := o.api.Post(ctx, "/generate", body, &resp); err != nil {
		var credit *api.InsufficientCreditError
		if errors.As(err, &credit) {
			o.logger.Info("generation rejected for credits",
				logging.String("job_id", jobID),
				logging.String("topup_url", credit.RemediationURL))
			return nil, err
		}
		return nil, fmt.Errorf("generate assets: %w", err)
	}

	epoch := o.api.Tenant().Epoch()
	o.mu.Lock()
	o.jobID = jobID
	o.assetIDs = append([]string(nil), resp.AssetIDs...)
	o.epoch = epoch
	o.mu.Unlock()

	o.logger.Info("assets generated",
		logging.String("job_id", jobID),
		logging.Int("assets", len(resp.AssetIDs)))
	return append([]string(nil), resp.AssetIDs...), nil
}

// ActiveJob returns the held job id. False when no job was created in the
// current tenant epoch.
func (o *Orchestrator) ActiveJob() (string, bool) {
	currentEpoch := o.api.Tenant().Epoch()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.jobID == "" || o.epoch != currentEpoch {
		return "", false
	}
	return o.jobID, true
}

// AssetIDs returns the ordered asset ids from the last successful
// generation in the current tenant epoch.
func (o *Orchestrator) AssetIDs() ([]string, bool) {
	currentEpoch := o.api.Tenant().Epoch()
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.assetIDs) == 0 || o.epoch != currentEpoch {
		return nil, false
	}
	return append([]string(nil), o.assetIDs...), true
}

// State reports the client-visible lifecycle of the held job.
func (o *Orchestrator) State() State {
	if _, ok := o.ActiveJob(); !ok {
		return StateNone
	}
	if _, ok := o.AssetIDs(); ok {
		return StateGenerated
	}
	return StateCreated
}

// AssetKinds returns the fixed set of asset kinds requested per generation.
func AssetKinds() []string {
	return append([]string(nil), assetKinds...)
}
