package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/devcatalyst/intake-service/internal/models"
)

// StatusStore persists review statuses keyed by record key.
type StatusStore interface {
	Get(ctx context.Context, key string) (models.ReviewStatus, error)
	Set(ctx context.Context, key string, status models.ReviewStatus) error
	All(ctx context.Context) (map[string]models.ReviewStatus, error)
	Close() error
}

// Tracker applies review actions to a StatusStore.
type Tracker struct {
	store StatusStore
}

func NewTracker(store StatusStore) *Tracker {
	return &Tracker{store: store}
}

// Open marks a pending record as viewed. Any other status is left alone.
func (t *Tracker) Open(ctx context.Context, key string) (models.ReviewStatus, error) {
	current, err := t.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if current != models.StatusPending {
		return current, nil
	}
	if err := t.store.Set(ctx, key, models.StatusViewed); err != nil {
		return "", err
	}
	return models.StatusViewed, nil
}

func (t *Tracker) Accept(ctx context.Context, key string) error {
	return t.store.Set(ctx, key, models.StatusAccepted)
}

func (t *Tracker) Reject(ctx context.Context, key string) error {
	return t.store.Set(ctx, key, models.StatusRejected)
}

// Mark sets any valid status, including a reset to pending.
func (t *Tracker) Mark(ctx context.Context, key string, status models.ReviewStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown review status %q", status)
	}
	return t.store.Set(ctx, key, status)
}

func (t *Tracker) Statuses(ctx context.Context) (map[string]models.ReviewStatus, error) {
	return t.store.All(ctx)
}

// MemoryStatusStore keeps statuses in process memory.
type MemoryStatusStore struct {
	mu       sync.RWMutex
	statuses map[string]models.ReviewStatus
}

var _ StatusStore = (*MemoryStatusStore)(nil)

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{statuses: make(map[string]models.ReviewStatus)}
}

func (m *MemoryStatusStore) Get(_ context.Context, key string) (models.ReviewStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.statuses[key]; ok {
		return s, nil
	}
	return models.StatusPending, nil
}

func (m *MemoryStatusStore) Set(_ context.Context, key string, status models.ReviewStatus) error {
	m.mu.Lock()
	m.statuses[key] = status
	m.mu.Unlock()
	return nil
}

func (m *MemoryStatusStore) All(context.Context) (map[string]models.ReviewStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]models.ReviewStatus, len(m.statuses))
	for k, v := range m.statuses {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStatusStore) Close() error { return nil }

// SQLiteStatusStore keeps statuses in a local SQLite file so they survive
// between CLI runs.
type SQLiteStatusStore struct {
	db *sql.DB
}

var _ StatusStore = (*SQLiteStatusStore)(nil)

func OpenStatusStore(path string) (*SQLiteStatusStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create status directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open status store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS review_status (
		record_key TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise status store: %w", err)
	}
	return &SQLiteStatusStore{db: db}, nil
}

func (s *SQLiteStatusStore) Get(ctx context.Context, key string) (models.ReviewStatus, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM review_status WHERE record_key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StatusPending, nil
	}
	if err != nil {
		return "", err
	}
	return models.ParseReviewStatus(raw)
}

func (s *SQLiteStatusStore) Set(ctx context.Context, key string, status models.ReviewStatus) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO review_status (record_key, status, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(record_key) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		key, string(status), time.Now().UnixMilli())
	return err
}

func (s *SQLiteStatusStore) All(ctx context.Context) (map[string]models.ReviewStatus, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record_key, status FROM review_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]models.ReviewStatus)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		status, err := models.ParseReviewStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt status for %s: %w", key, err)
		}
		out[key] = status
	}
	return out, rows.Err()
}

func (s *SQLiteStatusStore) Close() error {
	return s.db.Close()
}
