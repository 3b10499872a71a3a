package tabular

import (
	"strings"
	"time"
)

// Required columns for consistency analysis.
const (
	ColumnName     = "Name"
	ColumnDataType = "Data Type"
)

// CellKind identifies the scalar variant held by a Cell.
type CellKind string

const (
	CellEmpty  CellKind = "empty"
	CellText   CellKind = "text"
	CellNumber CellKind = "number"
	CellBool   CellKind = "boolean"
	CellTime   CellKind = "date"
)

// Cell is a tagged scalar value from one spreadsheet cell. Raw always
// holds the display string the cell was parsed from; the typed fields
// are only meaningful for the matching Kind.
type Cell struct {
	Kind   CellKind
	Raw    string
	Number float64
	Bool   bool
	Time   time.Time
}

// NewTextCell builds a text cell, downgrading blank input to empty.
func NewTextCell(raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, Raw: raw}
}

// NewNumberCell builds a numeric cell keeping the original display string.
func NewNumberCell(raw string, value float64) Cell {
	return Cell{Kind: CellNumber, Raw: raw, Number: value}
}

// NewBoolCell builds a boolean cell.
func NewBoolCell(raw string, value bool) Cell {
	return Cell{Kind: CellBool, Raw: raw, Bool: value}
}

// NewTimeCell builds a date cell.
func NewTimeCell(raw string, value time.Time) Cell {
	return Cell{Kind: CellTime, Raw: raw, Time: value}
}

// IsEmpty reports whether the cell holds no usable value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty || strings.TrimSpace(c.Raw) == ""
}

// String returns the canonical trimmed display form used for grouping
// and comparisons.
func (c Cell) String() string {
	return strings.TrimSpace(c.Raw)
}

// Value returns the native scalar for writing back into a sheet.
func (c Cell) Value() interface{} {
	switch c.Kind {
	case CellEmpty:
		return nil
	case CellNumber:
		return c.Number
	case CellBool:
		return c.Bool
	case CellTime:
		return c.Time
	default:
		return c.Raw
	}
}

// Record is one input row. Cells are aligned with the owning Dataset's
// Columns slice. Row is the 1-based row number in the source sheet,
// where the header occupies row 1.
type Record struct {
	Row     int
	Cells   []Cell
	Flagged bool
}

// Dataset is an ordered sequence of Records sharing one column set.
type Dataset struct {
	// SourceSheet is the worksheet the records were loaded from, kept
	// for same-document hyperlink targets.
	SourceSheet string
	Columns     []string
	Records     []Record
}

// ColumnIndex returns the position of column name, or -1 when absent.
func (d *Dataset) ColumnIndex(name string) int {
	for i, col := range d.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// CellAt returns the record's cell for the given column index. Short
// rows read as empty cells.
func (r Record) CellAt(idx int) Cell {
	if idx < 0 || idx >= len(r.Cells) {
		return Cell{Kind: CellEmpty}
	}
	return r.Cells[idx]
}

// HasColumns reports which of the wanted columns are missing.
func (d *Dataset) HasColumns(wanted ...string) (missing []string) {
	for _, name := range wanted {
		if d.ColumnIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	return missing
}
