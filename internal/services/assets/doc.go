// Package assets loads, edits, and saves generated lead-magnet drafts.
//
// Edits are whole-document: the editor fetches the full asset, the caller
// mutates fields locally, and Save writes the complete record back. There
// is no patch protocol and no conflict detection; last write wins.
package assets
