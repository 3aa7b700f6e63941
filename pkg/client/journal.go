package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/devcatalyst/intake-service/internal/models"
)

// Journal records every submission attempt before it is sent.
type Journal interface {
	Append(ctx context.Context, entry JournalEntry) error
	Entries(ctx context.Context) ([]JournalEntry, error)
	Close() error
}

type JournalEntry struct {
	SubmissionID string           `json:"submission_id"`
	Answers      models.AnswerSet `json:"answers"`
	CreatedAt    time.Time        `json:"created_at"`
}

// SQLiteJournal is a Journal in a local SQLite file.
type SQLiteJournal struct {
	db *sql.DB
}

var _ Journal = (*SQLiteJournal)(nil)

// OpenJournal opens or creates the journal database at path.
func OpenJournal(path string) (*SQLiteJournal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		submission_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise journal: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) Append(ctx context.Context, entry JournalEntry) error {
	payload, err := json.Marshal(entry.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO submissions (submission_id, payload, created_at) VALUES (?, ?, ?)`,
		entry.SubmissionID, string(payload), entry.CreatedAt.UnixMilli())
	return err
}

// Entries returns every journaled submission, oldest first.
func (j *SQLiteJournal) Entries(ctx context.Context) ([]JournalEntry, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT submission_id, payload, created_at FROM submissions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var (
			entry   JournalEntry
			payload string
			created int64
		)
		if err := rows.Scan(&entry.SubmissionID, &payload, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &entry.Answers); err != nil {
			return nil, fmt.Errorf("corrupt journal entry %s: %w", entry.SubmissionID, err)
		}
		entry.CreatedAt = time.UnixMilli(created).UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
