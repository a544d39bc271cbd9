// Package audit reads the tenant's activity trail. The viewer is strictly
// read-only; entries are written server-side as a byproduct of the
// operations themselves.
package audit
