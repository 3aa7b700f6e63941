package models

import (
	"time"

	"gorm.io/datatypes"
)

// SheetRecord is a tab of the Postgres-backed tabular store.
type SheetRecord struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null;uniqueIndex;size:200"`
	Position    int            `json:"position" gorm:"not null;default:0"`
	ColumnCount int            `json:"column_count" gorm:"not null;default:26"`
	Headers     datatypes.JSON `json:"headers" gorm:"type:jsonb"` // []string
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (SheetRecord) TableName() string { return "sheets" }

// SheetRowRecord is one appended data row. Rows are never updated.
type SheetRowRecord struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	SheetID   uint           `json:"sheet_id" gorm:"not null;index"`
	Cells     datatypes.JSON `json:"cells" gorm:"type:jsonb"` // map[string]string
	CreatedAt time.Time      `json:"created_at"`
}

func (SheetRowRecord) TableName() string { return "sheet_rows" }
