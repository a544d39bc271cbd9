package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/config"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/logging"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/assets"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/audit"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/billing"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/branding"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/credits"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/jobs"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/session"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/tenant"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/workspace"
)

// commandContext wires config, transport, and services lazily so that
// commands which never touch the network (config init, help) stay cheap.
type commandContext struct {
	configFlag *string
	tenantFlag *string
	jsonFlag   *bool

	once    sync.Once
	initErr error

	cfg      *config.Config
	logger   *slog.Logger
	tctx     *tenant.Context
	api      *api.Client
	store    *workspace.Store
	session  *session.Manager
	credits  *credits.Client
	jobs     *jobs.Orchestrator
	assets   *assets.Editor
	audit    *audit.Viewer
	branding *branding.Store
	billing  *billing.Client
}

func newCommandContext(configFlag, tenantFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		tenantFlag: tenantFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// ensure initializes everything once: config, logger, tenant context,
// transport, the workspace store, and the service layer. A saved session
// and job state for the active tenant are restored when present.
func (c *commandContext) ensure() error {
	c.once.Do(func() { c.initErr = c.initialize() })
	return c.initErr
}

func (c *commandContext) initialize() error {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return err
	}
	if c.tenantFlag != nil && strings.TrimSpace(*c.tenantFlag) != "" {
		cfg.Tenant = strings.TrimSpace(*c.tenantFlag)
	}
	c.cfg = cfg

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	c.logger = logger

	c.tctx = tenant.New(cfg.Tenant)

	opts := []api.Option{api.WithLogger(logger)}
	if cfg.RequestTimeoutSeconds > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(cfg.RequestTimeoutSeconds)*time.Second))
	}
	apiClient, err := api.New(cfg.APIURL, c.tctx, opts...)
	if err != nil {
		return err
	}
	c.api = apiClient

	store, err := workspace.Open(cfg)
	if err != nil {
		return err
	}
	c.store = store

	c.session = session.NewManager(apiClient, logger)
	c.credits = credits.NewClient(apiClient, logger)
	c.jobs = jobs.NewOrchestrator(apiClient, logger)
	c.assets = assets.NewEditor(apiClient, logger)
	c.audit = audit.NewViewer(apiClient, logger)
	c.branding = branding.NewStore(apiClient, logger)
	c.billing = billing.NewClient(apiClient, logger)

	c.restoreState()
	return nil
}

// restoreState seeds the services from persisted workspace state. An env
// token override wins over a saved session.
func (c *commandContext) restoreState() {
	ctx := context.Background()

	if strings.TrimSpace(c.cfg.Token) != "" {
		c.session.Restore(session.Credentials{Token: c.cfg.Token})
	} else if saved, found, err := c.store.LookupSession(ctx, c.cfg.Tenant); err == nil && found {
		c.session.Restore(session.Credentials{
			Email: saved.Email,
			Token: saved.Token,
			Role:  saved.Role,
		})
	}

	if jobID, found, err := c.store.ActiveJob(ctx, c.cfg.Tenant); err == nil && found {
		assetIDs, _ := c.store.AssetsForJob(ctx, c.cfg.Tenant, jobID)
		c.jobs.Restore(jobID, assetIDs)
	}
}

// requireAuth returns an error when no credential is installed.
func (c *commandContext) requireAuth() error {
	if !c.tctx.Snapshot().Authenticated() {
		return fmt.Errorf("not logged in to tenant %s (run 'leadmagnet login')", c.cfg.Tenant)
	}
	return nil
}

// persistSession writes the active credential to the workspace store.
func (c *commandContext) persistSession(ctx context.Context, creds session.Credentials) error {
	return c.store.SaveSession(ctx, workspace.Session{
		TenantID: c.cfg.Tenant,
		Email:    creds.Email,
		Role:     creds.Role,
		Token:    creds.Token,
	})
}

func (c *commandContext) close() {
	if c.store != nil {
		_ = c.store.Close()
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func shouldSkipSetup(cmd *cobra.Command) bool {
	for parent := cmd; parent != nil; parent = parent.Parent() {
		if parent.Annotations != nil && parent.Annotations["skipSetup"] == "true" {
			return true
		}
	}
	return false
}
