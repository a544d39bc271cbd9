// Package tenant owns the process-wide request context: the active tenant
// identifier and bearer credential stamped on every outbound call.
//
// Switching tenants bumps an epoch counter; components that cache per-tenant
// state record the epoch at fetch time and must treat a mismatch as "not yet
// fetched". That turns the tenant-switch race into a controllable input
// instead of hidden shared mutation.
package tenant
