// Command leadmagnet is the CLI for the video-to-lead-magnets service:
// submit a video, generate the lead-magnet drafts, edit and export them,
// and manage the tenant's credits, branding, and audit trail.
package main
