package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/config"
)

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the workspace database after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version of the tool.
var ErrSchemaMismatch = errors.New("workspace schema version mismatch")

// ErrLocked indicates another process holds the workspace.
var ErrLocked = errors.New("workspace is locked by another process")

// Store persists client state in a SQLite database under the state
// directory. One process at a time; the lock is held for the lifetime of
// the store.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open connects to the workspace database, acquiring the lock and creating
// or verifying the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.StateDir, "workspace.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	dbPath := filepath.Join(cfg.StateDir, "workspace.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close closes the database and releases the workspace lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.db != nil {
		firstErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Session is a persisted credential for one tenant.
type Session struct {
	TenantID string
	Email    string
	Role     string
	Token    string
}

// SaveSession stores or replaces the session for the tenant.
func (s *Store) SaveSession(ctx context.Context, session Session) error {
	if session.TenantID == "" {
		return errors.New("save session: tenant id is required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (tenant_id, email, role, token, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT (tenant_id) DO UPDATE SET
             email = excluded.email,
             role = excluded.role,
             token = excluded.token,
             updated_at = excluded.updated_at`,
		session.TenantID, session.Email, session.Role, session.Token, now,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LookupSession returns the saved session for the tenant, or false when
// none exists.
func (s *Store) LookupSession(ctx context.Context, tenantID string) (Session, bool, error) {
	var session Session
	row := s.db.QueryRowContext(ctx,
		"SELECT tenant_id, email, role, token FROM sessions WHERE tenant_id = ?", tenantID)
	err := row.Scan(&session.TenantID, &session.Email, &session.Role, &session.Token)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("lookup session: %w", err)
	}
	return session, true, nil
}

// DeleteSession removes the tenant's saved session, along with the job
// state that only made sense under it.
func (s *Store) DeleteSession(ctx context.Context, tenantID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DELETE FROM sessions WHERE tenant_id = ?",
		"DELETE FROM jobs WHERE tenant_id = ?",
		"DELETE FROM job_assets WHERE tenant_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, tenantID); err != nil {
			return fmt.Errorf("delete session state: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}
	return nil
}

// RecordJob stores the tenant's most recent job, clearing any asset ids
// from an earlier job.
func (s *Store) RecordJob(ctx context.Context, tenantID, jobID string) error {
	if tenantID == "" || jobID == "" {
		return errors.New("record job: tenant id and job id are required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin job tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO jobs (tenant_id, job_id, created_at)
         VALUES (?, ?, ?)
         ON CONFLICT (tenant_id) DO UPDATE SET
             job_id = excluded.job_id,
             created_at = excluded.created_at`,
		tenantID, jobID, now,
	); err != nil {
		return fmt.Errorf("record job: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM job_assets WHERE tenant_id = ?", tenantID,
	); err != nil {
		return fmt.Errorf("clear stale assets: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit job tx: %w", err)
	}
	return nil
}

// ActiveJob returns the tenant's most recent job id, or false when none
// was recorded.
func (s *Store) ActiveJob(ctx context.Context, tenantID string) (string, bool, error) {
	var jobID string
	row := s.db.QueryRowContext(ctx, "SELECT job_id FROM jobs WHERE tenant_id = ?", tenantID)
	err := row.Scan(&jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("active job: %w", err)
	}
	return jobID, true, nil
}

// RecordAssets stores the ordered asset ids produced for the job,
// replacing any earlier set.
func (s *Store) RecordAssets(ctx context.Context, tenantID, jobID string, assetIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assets tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM job_assets WHERE tenant_id = ? AND job_id = ?", tenantID, jobID,
	); err != nil {
		return fmt.Errorf("clear assets: %w", err)
	}
	for position, assetID := range assetIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO job_assets (tenant_id, job_id, position, asset_id) VALUES (?, ?, ?, ?)",
			tenantID, jobID, position, assetID,
		); err != nil {
			return fmt.Errorf("record asset %s: %w", assetID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assets tx: %w", err)
	}
	return nil
}

// AssetsForJob returns the ordered asset ids recorded for the job.
func (s *Store) AssetsForJob(ctx context.Context, tenantID, jobID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT asset_id FROM job_assets WHERE tenant_id = ? AND job_id = ? ORDER BY position",
		tenantID, jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("assets for job: %w", err)
	}
	defer rows.Close()

	var assetIDs []string
	for rows.Next() {
		var assetID string
		if err := rows.Scan(&assetID); err != nil {
			return nil, fmt.Errorf("scan asset id: %w", err)
		}
		assetIDs = append(assetIDs, assetID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assetIDs, nil
}
