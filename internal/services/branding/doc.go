// Package branding holds the tenant's white-label identity: display name,
// logo, colors, and custom domain. A tenant that never saved branding
// still renders with sensible defaults.
package branding
