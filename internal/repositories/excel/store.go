package excel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/devcatalyst/intake-service/internal/repositories"
)

// Store keeps every tab in one .xlsx workbook on disk. Each mutation is
// written back with SaveAs before the call returns.
type Store struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

var _ repositories.TabularStore = (*Store)(nil)

// Open loads the workbook at path, creating it with a primary tab when the
// file does not exist.
func Open(path, primary string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("workbook path is required")
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		if primary != "" {
			idx, err := f.NewSheet(primary)
			if err != nil {
				return nil, fmt.Errorf("failed to create sheet %q: %w", primary, err)
			}
			f.SetActiveSheet(idx)
		}
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("failed to create workbook: %w", err)
		}
		return &Store{path: path, file: f}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Store{path: path, file: f}, nil
}

func (s *Store) hasSheet(title string) bool {
	for _, name := range s.file.GetSheetList() {
		if name == title {
			return true
		}
	}
	return false
}

func (s *Store) rows(title string) ([][]string, error) {
	if !s.hasSheet(title) {
		return nil, fmt.Errorf("%w: %s", repositories.ErrSheetNotFound, title)
	}
	rows, err := s.file.GetRows(title)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", title, err)
	}
	return rows, nil
}

func (s *Store) ListSheets(ctx context.Context) ([]repositories.SheetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := s.file.GetSheetList()
	out := make([]repositories.SheetInfo, 0, len(names))
	for _, name := range names {
		rows, err := s.file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		info := repositories.SheetInfo{Title: name}
		if len(rows) > 0 {
			info.ColumnCount = len(rows[0])
			info.RowCount = len(rows) - 1
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *Store) CreateSheet(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("sheet title is required")
	}
	if s.hasSheet(title) {
		return fmt.Errorf("sheet %q already exists", title)
	}
	if _, err := s.file.NewSheet(title); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", title, err)
	}
	return s.save()
}

func (s *Store) HeaderRow(ctx context.Context, title string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.rows(title)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return trimTrailing(rows[0]), nil
}

func (s *Store) SetHeaderRow(ctx context.Context, title string, headers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSheet(title) {
		return fmt.Errorf("%w: %s", repositories.ErrSheetNotFound, title)
	}
	if err := s.writeRow(title, 1, headers); err != nil {
		return err
	}
	return s.save()
}

// Resize is a no-op: a worksheet has no fixed column count.
func (s *Store) Resize(ctx context.Context, title string, columns int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSheet(title) {
		return fmt.Errorf("%w: %s", repositories.ErrSheetNotFound, title)
	}
	return nil
}

func (s *Store) AppendRow(ctx context.Context, title string, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.rows(title)
	if err != nil {
		return err
	}
	var headers []string
	if len(rows) > 0 {
		headers = trimTrailing(rows[0])
	}
	if err := repositories.CheckColumns(headers, values); err != nil {
		return err
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = values[h]
	}
	next := len(rows) + 1
	if next < 2 {
		next = 2
	}
	if err := s.writeRow(title, next, cells); err != nil {
		return err
	}
	return s.save()
}

func (s *Store) Rows(ctx context.Context, title string) ([]repositories.DataRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.rows(title)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []repositories.DataRow{}, nil
	}

	headers := rows[0]
	out := make([]repositories.DataRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(repositories.DataRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				record[h] = row[i]
			} else {
				record[h] = ""
			}
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := os.Stat(s.path)
	return err
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func (s *Store) writeRow(title string, rowIndex int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := s.file.SetSheetRow(title, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", rowIndex, title, err)
	}
	return nil
}

func (s *Store) save() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func trimTrailing(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return append([]string{}, row[:end]...)
}
