// Package api is the shared HTTP transport for the lead-magnet backend.
//
// Every request is stamped with the active tenant header, the bearer
// credential when one is set, and a correlation id. Credit rejections (402)
// and missing resources (404) are decoded into typed errors here, once, at
// the transport boundary; everything else surfaces as a RemoteError that the
// owning service translates into its operation-specific error exactly once.
package api
