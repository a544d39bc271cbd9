// Package credits reads the tenant's usage-credit balance and requests
// top-ups. The cached balance is epoch-scoped: tenant switches make it
// unknown again, and "unknown" is distinct from a real zero balance.
package credits
