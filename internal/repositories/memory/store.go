package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/devcatalyst/intake-service/internal/repositories"
)

// DefaultColumns is the grid width of a new tab.
const DefaultColumns = 26

type sheet struct {
	title   string
	columns int
	headers []string
	rows    [][]string
}

// Store is an in-process TabularStore. Like a spreadsheet grid it enforces a
// column count, so headers cannot outgrow a tab until it is resized.
type Store struct {
	mu     sync.RWMutex
	sheets []*sheet
}

var _ repositories.TabularStore = (*Store)(nil)

// New returns a store with the given empty tabs.
func New(titles ...string) *Store {
	s := &Store{}
	for _, t := range titles {
		s.sheets = append(s.sheets, &sheet{title: t, columns: DefaultColumns})
	}
	return s
}

func (s *Store) find(title string) (*sheet, error) {
	for _, sh := range s.sheets {
		if sh.title == title {
			return sh, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repositories.ErrSheetNotFound, title)
}

func (s *Store) ListSheets(ctx context.Context) ([]repositories.SheetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]repositories.SheetInfo, 0, len(s.sheets))
	for _, sh := range s.sheets {
		out = append(out, repositories.SheetInfo{Title: sh.title, ColumnCount: sh.columns, RowCount: len(sh.rows)})
	}
	return out, nil
}

func (s *Store) CreateSheet(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("sheet title is required")
	}
	if _, err := s.find(title); err == nil {
		return fmt.Errorf("sheet %q already exists", title)
	}
	s.sheets = append(s.sheets, &sheet{title: title, columns: DefaultColumns})
	return nil
}

func (s *Store) HeaderRow(ctx context.Context, title string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, err := s.find(title)
	if err != nil {
		return nil, err
	}
	return append([]string{}, sh.headers...), nil
}

func (s *Store) SetHeaderRow(ctx context.Context, title string, headers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.find(title)
	if err != nil {
		return err
	}
	if len(headers) > sh.columns {
		return fmt.Errorf("header has %d columns but sheet %q only has %d", len(headers), title, sh.columns)
	}
	sh.headers = append([]string{}, headers...)
	return nil
}

func (s *Store) Resize(ctx context.Context, title string, columns int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.find(title)
	if err != nil {
		return err
	}
	if columns > sh.columns {
		sh.columns = columns
	}
	return nil
}

func (s *Store) AppendRow(ctx context.Context, title string, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.find(title)
	if err != nil {
		return err
	}
	if err := repositories.CheckColumns(sh.headers, values); err != nil {
		return err
	}
	row := make([]string, len(sh.headers))
	for i, h := range sh.headers {
		row[i] = values[h]
	}
	sh.rows = append(sh.rows, row)
	return nil
}

func (s *Store) Rows(ctx context.Context, title string) ([]repositories.DataRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, err := s.find(title)
	if err != nil {
		return nil, err
	}
	out := make([]repositories.DataRow, 0, len(sh.rows))
	for _, row := range sh.rows {
		out = append(out, toDataRow(sh.headers, row))
	}
	return out, nil
}

// SeedRows writes raw rows without header checks; useful for fixtures that
// model hand-edited sheets.
func (s *Store) SeedRows(title string, headers []string, rows ...[]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.find(title)
	if err != nil {
		return err
	}
	if len(headers) > sh.columns {
		sh.columns = len(headers)
	}
	sh.headers = append([]string{}, headers...)
	for _, r := range rows {
		sh.rows = append(sh.rows, append([]string{}, r...))
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

func toDataRow(headers, row []string) repositories.DataRow {
	out := make(repositories.DataRow, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(row) {
			out[h] = row[i]
		} else {
			out[h] = ""
		}
	}
	return out
}
