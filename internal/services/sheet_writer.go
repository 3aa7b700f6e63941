package services

import (
	"context"
	"strings"
	"sync"

	"github.com/devcatalyst/intake-service/internal/metrics"
	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/repositories"
)

// ColumnHeadroom is added when a tab is resized to fit a wider row.
const ColumnHeadroom = 5

// sheetLocks hands out one mutex per sheet title. A nil *sheetLocks never blocks.
type sheetLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSheetLocks(enabled bool) *sheetLocks {
	if !enabled {
		return nil
	}
	return &sheetLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *sheetLocks) Lock(title string) func() {
	if l == nil {
		return func() {}
	}
	key := strings.ToLower(title)

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// sheetWriter appends rows with header discipline: the header is created on
// first write and only ever extended with missing columns at the end.
type sheetWriter struct {
	store   repositories.TabularStore
	locks   *sheetLocks
	metrics *metrics.Metrics
}

func (w *sheetWriter) Append(ctx context.Context, sheet repositories.SheetInfo, row models.Row) error {
	unlock := w.locks.Lock(sheet.Title)
	defer unlock()

	headers, err := w.store.HeaderRow(ctx, sheet.Title)
	if err != nil {
		return NewStoreError("read header", err)
	}

	keys := row.Keys()
	missing := keys
	if len(headers) > 0 {
		missing = repositories.MissingHeaders(headers, keys)
	}
	width := len(headers) + len(missing)

	if sheet.ColumnCount < width {
		if err := w.store.Resize(ctx, sheet.Title, width+ColumnHeadroom); err != nil {
			return NewStoreError("resize", err)
		}
	}

	if len(missing) > 0 {
		if err := w.store.SetHeaderRow(ctx, sheet.Title, append(headers, missing...)); err != nil {
			return NewStoreError("write header", err)
		}
		if len(headers) > 0 {
			w.metrics.HeaderExtends.WithLabelValues(sheet.Title).Inc()
		}
	}

	if err := w.store.AppendRow(ctx, sheet.Title, row.Values()); err != nil {
		return NewStoreError("append row", err)
	}
	return nil
}

// resolvePrimary finds the configured primary tab, falling back to the first tab.
func resolvePrimary(sheets []repositories.SheetInfo, name string) (repositories.SheetInfo, bool) {
	if sheet, ok := repositories.PrimarySheet(sheets, name); ok {
		return sheet, true
	}
	return repositories.PrimarySheet(sheets, "")
}
