// Package session owns signup, login, logout, and email-verification state.
//
// Verification is tri-state: unknown until a check succeeds, and any failure
// to check (no credential, transport error, rejected request) reports
// unknown rather than unverified. Absence of proof is not proof of absence.
package session
