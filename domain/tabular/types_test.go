package tabular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCellVariants(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		cell      Cell
		wantKind  CellKind
		wantValue interface{}
		wantEmpty bool
	}{
		{name: "text", cell: NewTextCell("int"), wantKind: CellText, wantValue: "int"},
		{name: "blank text is empty", cell: NewTextCell("   "), wantKind: CellEmpty, wantValue: nil, wantEmpty: true},
		{name: "number", cell: NewNumberCell("42", 42), wantKind: CellNumber, wantValue: 42.0},
		{name: "boolean", cell: NewBoolCell("TRUE", true), wantKind: CellBool, wantValue: true},
		{name: "date", cell: NewTimeCell("2024-05-01", now), wantKind: CellTime, wantValue: now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.cell.Kind)
			assert.Equal(t, tt.wantValue, tt.cell.Value())
			assert.Equal(t, tt.wantEmpty, tt.cell.IsEmpty())
		})
	}
}

func TestCellStringTrims(t *testing.T) {
	assert.Equal(t, "int", NewTextCell(" int ").String())
}

func TestDatasetColumnLookup(t *testing.T) {
	ds := &Dataset{Columns: []string{"Name", "Data Type", "Notes"}}

	assert.Equal(t, 1, ds.ColumnIndex(ColumnDataType))
	assert.Equal(t, -1, ds.ColumnIndex("Missing"))
	assert.Empty(t, ds.HasColumns(ColumnName, ColumnDataType))
	assert.Equal(t, []string{"Data Type"}, (&Dataset{Columns: []string{"Name"}}).HasColumns(ColumnName, ColumnDataType))
}

func TestRecordCellAtOutOfRange(t *testing.T) {
	rec := Record{Cells: []Cell{NewTextCell("x")}}

	assert.Equal(t, CellEmpty, rec.CellAt(5).Kind)
	assert.Equal(t, CellEmpty, rec.CellAt(-1).Kind)
	assert.Equal(t, "x", rec.CellAt(0).String())
}
