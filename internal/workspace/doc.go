// Package workspace persists per-tenant client state between invocations:
// the saved session, the last submitted job, and the asset ids from its
// generation. The service remains authoritative for all of it; this store
// only lets a new process pick up where the last one left off.
package workspace
