package tenant

import (
	"strings"
	"sync"
)

// Snapshot is the immutable view of the context taken at dispatch time.
// Concurrent operations read whatever snapshot is current when their request
// leaves; in-flight requests keep the snapshot they started with.
type Snapshot struct {
	TenantID string
	Token    string
	Epoch    uint64
}

// Authenticated reports whether a bearer credential is present.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// Context holds the active tenant identifier and bearer credential.
// The zero value has no tenant and no credential.
type Context struct {
	mu       sync.RWMutex
	tenantID string
	token    string
	epoch    uint64
}

// New returns a Context bound to the given tenant.
func New(tenantID string) *Context {
	return &Context{tenantID: strings.TrimSpace(tenantID)}
}

// SwitchTenant sets the active tenant. Switching to a different tenant clears
// the credential and bumps the epoch, invalidating all per-tenant caches.
// Switching to the current tenant is a no-op.
func (c *Context) SwitchTenant(tenantID string) {
	tenantID = strings.TrimSpace(tenantID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if tenantID == c.tenantID {
		return
	}
	c.tenantID = tenantID
	c.token = ""
	c.epoch++
}

// SetCredential installs the bearer credential for subsequent calls.
func (c *Context) SetCredential(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// ClearCredential removes the credential, leaving the tenant in place.
// Per-tenant caches are invalidated because what a request may see can
// change with the credential.
func (c *Context) ClearCredential() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.epoch++
}

// Snapshot returns the current tenant, credential, and epoch.
func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{TenantID: c.tenantID, Token: c.token, Epoch: c.epoch}
}

// Epoch returns the current invalidation epoch.
func (c *Context) Epoch() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}
