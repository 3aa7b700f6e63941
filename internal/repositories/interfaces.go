package repositories

import (
	"context"
	"errors"
	"strings"
)

// ErrSheetNotFound is returned when a named tab does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrUnknownColumn is returned when a row carries a key the header lacks.
var ErrUnknownColumn = errors.New("row has a column missing from the header")

// ===== SHARED STRUCTS =====

type SheetInfo struct {
	Title       string `json:"title"`
	ColumnCount int    `json:"column_count"`
	RowCount    int    `json:"row_count"`
}

// DataRow is a data row keyed by header label.
type DataRow map[string]string

// ===== STORE INTERFACE =====

// TabularStore is a spreadsheet-like backing store: named tabs, each with one
// header row and append-only data rows addressed by header label.
type TabularStore interface {
	// ListSheets returns tabs in their natural order.
	ListSheets(ctx context.Context) ([]SheetInfo, error)
	// CreateSheet adds an empty tab. Used for provisioning, never by intake.
	CreateSheet(ctx context.Context, title string) error
	// HeaderRow returns the header of a tab; an empty slice means headerless.
	HeaderRow(ctx context.Context, sheet string) ([]string, error)
	// SetHeaderRow overwrites the header row.
	SetHeaderRow(ctx context.Context, sheet string, headers []string) error
	// Resize grows the tab's column count. Backends without a fixed grid may no-op.
	Resize(ctx context.Context, sheet string, columns int) error
	// AppendRow writes one row under the current header. Keys absent from the
	// header fail with ErrUnknownColumn.
	AppendRow(ctx context.Context, sheet string, values map[string]string) error
	// Rows returns every data row in append order.
	Rows(ctx context.Context, sheet string) ([]DataRow, error)
	Ping(ctx context.Context) error
	Close() error
}

// ===== HELPERS =====

// FindSheet returns the first tab whose title contains keyword, ignoring case.
func FindSheet(sheets []SheetInfo, keyword string) (SheetInfo, bool) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return SheetInfo{}, false
	}
	for _, s := range sheets {
		if strings.Contains(strings.ToLower(s.Title), keyword) {
			return s, true
		}
	}
	return SheetInfo{}, false
}

// PrimarySheet returns the tab titled name (case-insensitive), or the first tab
// when name is empty.
func PrimarySheet(sheets []SheetInfo, name string) (SheetInfo, bool) {
	if name == "" {
		if len(sheets) == 0 {
			return SheetInfo{}, false
		}
		return sheets[0], true
	}
	for _, s := range sheets {
		if strings.EqualFold(s.Title, name) {
			return s, true
		}
	}
	return SheetInfo{}, false
}

// MissingHeaders returns keys that are not yet in headers, in key order.
func MissingHeaders(headers, keys []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, k := range keys {
		if !present[k] {
			missing = append(missing, k)
			present[k] = true
		}
	}
	return missing
}

// CheckColumns verifies every key of values is a header.
func CheckColumns(headers []string, values map[string]string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for k := range values {
		if !present[k] {
			return ErrUnknownColumn
		}
	}
	return nil
}
