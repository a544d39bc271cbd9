// Package jobs creates processing jobs from a video URL or upload and
// drives credit-gated asset generation.
//
// Job creation and generation are deliberately decoupled: a generation
// rejected for insufficient credits leaves the job id intact, so the user
// can top up and retry generation without re-submitting the source video.
package jobs
