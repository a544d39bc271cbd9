package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/logging"
)

// Verification is the tri-state email-verification status.
type Verification int

const (
	// VerificationUnknown means no successful check has happened yet.
	// It must never be rendered as verified or unverified.
	VerificationUnknown Verification = iota
	VerificationVerified
	VerificationUnverified
)

func (v Verification) String() string {
	switch v {
	case VerificationVerified:
		return "verified"
	case VerificationUnverified:
		return "unverified"
	default:
		return "unknown"
	}
}

// Credentials is the result of a successful signup or login.
type Credentials struct {
	Email string
	Token string
	Role  string
}

// Manager drives the auth endpoints and tracks the verification state for
// the active credential.
type Manager struct {
	client *api.Client
	logger *slog.Logger

	mu           sync.Mutex
	email        string
	role         string
	verification Verification
}

// NewManager constructs a session manager on the shared transport.
func NewManager(client *api.Client, logger *slog.Logger) *Manager {
	return &Manager{
		client: client,
		logger: logging.NewComponentLogger(logger, "session"),
	}
}

type authResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Signup creates an account in the active tenant, installs the returned
// credential, and kicks off an immediate verification check.
func (m *Manager) Signup(ctx context.Context, email, password, role string) (Credentials, error) {
	body := map[string]string{
		"email":     email,
		"password":  password,
		"tenant_id": m.client.Tenant().Snapshot().TenantID,
		"role":      role,
	}
	var resp authResponse
	if err := m.client.Post(ctx, "/auth/signup", body, &resp); err != nil {
		return Credentials{}, translateAuthFailure(err, m.client.Tenant().Snapshot().TenantID)
	}
	return m.install(ctx, email, resp), nil
}

// Login authenticates against the active tenant and installs the credential.
func (m *Manager) Login(ctx context.Context, email, password string) (Credentials, error) {
	tenantID := m.client.Tenant().Snapshot().TenantID
	body := map[string]string{
		"email":     email,
		"password":  password,
		"tenant_id": tenantID,
	}
	var resp authResponse
	if err := m.client.Post(ctx, "/auth/login", body, &resp); err != nil {
		return Credentials{}, translateAuthFailure(err, tenantID)
	}
	return m.install(ctx, email, resp), nil
}

func (m *Manager) install(ctx context.Context, email string, resp authResponse) Credentials {
	m.client.Tenant().SetCredential(resp.Token)

	m.mu.Lock()
	m.email = email
	m.role = resp.Role
	m.verification = VerificationUnknown
	m.mu.Unlock()

	// Best effort; the result lands in the cached tri-state either way.
	m.RefreshVerification(ctx)

	return Credentials{Email: email, Token: resp.Token, Role: resp.Role}
}

// Restore seeds the manager and tenant context from a previously saved
// session without a network round trip.
func (m *Manager) Restore(creds Credentials) {
	m.client.Tenant().SetCredential(creds.Token)
	m.mu.Lock()
	m.email = creds.Email
	m.role = creds.Role
	m.verification = VerificationUnknown
	m.mu.Unlock()
}

// RefreshVerification asks the service whether the current account's email
// is verified. Without a credential, or on any failure, the answer is
// unknown.
func (m *Manager) RefreshVerification(ctx context.Context) Verification {
	if !m.client.Tenant().Snapshot().Authenticated() {
		return m.setVerification(VerificationUnknown)
	}

	var resp struct {
		EmailVerified bool `json:"email_verified"`
	}
	if err := m.client.Get(ctx, "/me", nil, &resp); err != nil {
		m.logger.Debug("verification check failed", logging.Error(err))
		return m.setVerification(VerificationUnknown)
	}
	if resp.EmailVerified {
		return m.setVerification(VerificationVerified)
	}
	return m.setVerification(VerificationUnverified)
}

func (m *Manager) setVerification(v Verification) Verification {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verification = v
	return v
}

// Verification returns the last known verification state.
func (m *Manager) Verification() Verification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verification
}

// Email returns the email of the active session, if any.
func (m *Manager) Email() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.email
}

// Role returns the role of the active session, if any.
func (m *Manager) Role() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.role
}

// RequestVerificationEmail asks the service to send a verification link.
// Fire and forget: completion says nothing about verification itself, which
// is only observed through RefreshVerification.
func (m *Manager) RequestVerificationEmail(ctx context.Context) error {
	if err := m.client.Post(ctx, "/auth/send-verify", nil, nil); err != nil {
		return fmt.Errorf("request verification email: %w", err)
	}
	return nil
}

// ConfirmEmail redeems a one-time verification token from an emailed link.
// Independent of the active session.
func (m *Manager) ConfirmEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("confirm email: token is required")
	}
	query := url.Values{"token": []string{token}}
	if err := m.client.PostQuery(ctx, "/auth/verify", query, nil); err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	return nil
}

// RequestPasswordReset asks the service to email a reset link. Fire and
// forget; the service does not reveal whether the account exists.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{
		"email":     email,
		"tenant_id": m.client.Tenant().Snapshot().TenantID,
	}
	if err := m.client.Post(ctx, "/auth/forgot", body, nil); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

// ResetPassword redeems a one-time reset token. Independent of the active
// session.
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("reset password: token is required")
	}
	body := map[string]string{
		"token":        token,
		"new_password": newPassword,
	}
	if err := m.client.Post(ctx, "/auth/reset", body, nil); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// Logout clears the credential and all session-scoped state.
func (m *Manager) Logout() {
	m.client.Tenant().ClearCredential()
	m.mu.Lock()
	m.email = ""
	m.role = ""
	m.verification = VerificationUnknown
	m.mu.Unlock()
}

// translateAuthFailure maps the auth endpoints' status codes into the typed
// taxonomy exactly once.
func translateAuthFailure(err error, tenantID string) error {
	remote, ok := api.AsRemote(err)
	if !ok {
		return err
	}
	switch remote.Status {
	case http.StatusBadRequest, http.StatusUnauthorized:
		return &api.AuthError{Message: api.Detail(remote.Body)}
	case http.StatusForbidden:
		return &api.TenantMismatchError{TenantID: tenantID}
	default:
		return err
	}
}
