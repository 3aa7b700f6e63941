package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/repositories"
)

const defaultColumns = 26

type SheetPostgreSQL struct {
	db *gorm.DB
}

var _ repositories.TabularStore = (*SheetPostgreSQL)(nil)

func NewSheetPostgreSQL(db *gorm.DB) *SheetPostgreSQL {
	return &SheetPostgreSQL{db: db}
}

// Migrate creates the sheets and sheet_rows tables.
func (s *SheetPostgreSQL) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.SheetRecord{}, &models.SheetRowRecord{})
}

func (s *SheetPostgreSQL) getSheet(tx *gorm.DB, title string) (*models.SheetRecord, error) {
	var sheet models.SheetRecord
	if err := tx.Where("title = ?", title).First(&sheet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", repositories.ErrSheetNotFound, title)
		}
		return nil, err
	}
	return &sheet, nil
}

func (s *SheetPostgreSQL) ListSheets(ctx context.Context) ([]repositories.SheetInfo, error) {
	var sheets []models.SheetRecord
	if err := s.db.WithContext(ctx).Order("position ASC, id ASC").Find(&sheets).Error; err != nil {
		return nil, err
	}

	type rowCount struct {
		SheetID uint
		Count   int
	}
	var counts []rowCount
	if err := s.db.WithContext(ctx).Model(&models.SheetRowRecord{}).
		Select("sheet_id, COUNT(*) AS count").
		Group("sheet_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]int, len(counts))
	for _, c := range counts {
		byID[c.SheetID] = c.Count
	}

	out := make([]repositories.SheetInfo, 0, len(sheets))
	for _, sh := range sheets {
		out = append(out, repositories.SheetInfo{Title: sh.Title, ColumnCount: sh.ColumnCount, RowCount: byID[sh.ID]})
	}
	return out, nil
}

func (s *SheetPostgreSQL) CreateSheet(ctx context.Context, title string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SheetRecord{}).Count(&count).Error; err != nil {
			return err
		}
		sheet := &models.SheetRecord{
			Title:       title,
			Position:    int(count),
			ColumnCount: defaultColumns,
			Headers:     datatypes.JSON("[]"),
		}
		if err := tx.Create(sheet).Error; err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", title, err)
		}
		return nil
	})
}

func (s *SheetPostgreSQL) HeaderRow(ctx context.Context, title string) ([]string, error) {
	sheet, err := s.getSheet(s.db.WithContext(ctx), title)
	if err != nil {
		return nil, err
	}
	return decodeHeaders(sheet.Headers)
}

func (s *SheetPostgreSQL) SetHeaderRow(ctx context.Context, title string, headers []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sheet, err := s.getSheet(tx, title)
		if err != nil {
			return err
		}
		if len(headers) > sheet.ColumnCount {
			return fmt.Errorf("header has %d columns but sheet %q only has %d", len(headers), title, sheet.ColumnCount)
		}
		encoded, err := json.Marshal(headers)
		if err != nil {
			return err
		}
		return tx.Model(sheet).Update("headers", datatypes.JSON(encoded)).Error
	})
}

func (s *SheetPostgreSQL) Resize(ctx context.Context, title string, columns int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sheet, err := s.getSheet(tx, title)
		if err != nil {
			return err
		}
		if columns <= sheet.ColumnCount {
			return nil
		}
		return tx.Model(sheet).Update("column_count", columns).Error
	})
}

func (s *SheetPostgreSQL) AppendRow(ctx context.Context, title string, values map[string]string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sheet, err := s.getSheet(tx, title)
		if err != nil {
			return err
		}
		headers, err := decodeHeaders(sheet.Headers)
		if err != nil {
			return err
		}
		if err := repositories.CheckColumns(headers, values); err != nil {
			return err
		}
		encoded, err := json.Marshal(values)
		if err != nil {
			return err
		}
		row := &models.SheetRowRecord{SheetID: sheet.ID, Cells: datatypes.JSON(encoded)}
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("failed to append row to %q: %w", title, err)
		}
		return nil
	})
}

func (s *SheetPostgreSQL) Rows(ctx context.Context, title string) ([]repositories.DataRow, error) {
	db := s.db.WithContext(ctx)
	sheet, err := s.getSheet(db, title)
	if err != nil {
		return nil, err
	}
	headers, err := decodeHeaders(sheet.Headers)
	if err != nil {
		return nil, err
	}

	var records []models.SheetRowRecord
	if err := db.Where("sheet_id = ?", sheet.ID).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	out := make([]repositories.DataRow, 0, len(records))
	for _, rec := range records {
		var cells map[string]string
		if err := json.Unmarshal(rec.Cells, &cells); err != nil {
			return nil, fmt.Errorf("failed to decode row %d of %q: %w", rec.ID, title, err)
		}
		row := make(repositories.DataRow, len(headers))
		for _, h := range headers {
			row[h] = cells[h]
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *SheetPostgreSQL) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SheetPostgreSQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func decodeHeaders(raw datatypes.JSON) ([]string, error) {
	headers := []string{}
	if len(raw) == 0 {
		return headers, nil
	}
	if err := json.Unmarshal(raw, &headers); err != nil {
		return nil, fmt.Errorf("failed to decode header row: %w", err)
	}
	return headers, nil
}
