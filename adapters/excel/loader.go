package excel

import (
	"fmt"
	"strings"

	"github.com/Ivanfun/ivan-excel-type-checker/domain/tabular"
	"github.com/Ivanfun/ivan-excel-type-checker/internal"
	"github.com/Ivanfun/ivan-excel-type-checker/internal/errors"
	"github.com/extrame/xls"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// Loader decodes a spreadsheet file into a row-oriented Dataset.
type Loader struct {
	logger *internal.Logger
}

// NewLoader creates a loader.
func NewLoader(logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{logger: logger}
}

// Load reads the spreadsheet at path according to the declared format
// and validates that the required Name and Data Type columns exist.
func (l *Loader) Load(path string, format Format) (*tabular.Dataset, error) {
	l.logger.Debug("[Loader] reading %s file: %s", format, path)

	var (
		ds  *tabular.Dataset
		err error
	)
	switch format {
	case FormatXLS:
		ds, err = l.loadLegacy(path)
	case FormatXLSX, FormatXLSM:
		ds, err = l.loadWorkbook(path)
	default:
		return nil, errors.UnsupportedFormat(string(format))
	}
	if err != nil {
		return nil, err
	}

	if missing := ds.HasColumns(tabular.ColumnName, tabular.ColumnDataType); len(missing) > 0 {
		return nil, errors.MissingRequiredColumns(missing)
	}

	l.logger.Info("[Loader] loaded sheet %q (%d columns, %d rows)",
		ds.SourceSheet, len(ds.Columns), len(ds.Records))
	return ds, nil
}

// loadWorkbook reads a modern workbook with excelize. The active sheet
// is tried first; when that fails and the workbook holds exactly one
// worksheet, that sheet is retried. A multi-sheet workbook with no
// resolvable sheet is an ambiguity, not a guess.
func (l *Loader) loadWorkbook(path string) (*tabular.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.UnreadableDocument(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.UnreadableDocument(fmt.Errorf("workbook contains no worksheets"))
	}

	primary := f.GetSheetName(f.GetActiveSheetIndex())
	if primary == "" {
		primary = sheets[0]
	}

	rows, err := f.GetRows(primary)
	if err != nil && len(sheets) == 1 && sheets[0] != primary {
		primary = sheets[0]
		rows, err = f.GetRows(primary)
	}
	if err != nil {
		if len(sheets) > 1 {
			return nil, errors.AmbiguousSheet(len(sheets))
		}
		return nil, errors.UnreadableDocument(err)
	}

	return l.buildDataset(primary, rows, func(col, row int, raw string) tabular.Cell {
		return typedCell(f, primary, col, row, raw)
	}), nil
}

// loadLegacy reads a legacy BIFF workbook, which excelize cannot parse.
func (l *Loader) loadLegacy(path string) (*tabular.Dataset, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, errors.UnreadableDocument(err)
	}

	sheetCount := wb.NumSheets()
	if sheetCount == 0 {
		return nil, errors.UnreadableDocument(fmt.Errorf("workbook contains no worksheets"))
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		if sheetCount > 1 {
			return nil, errors.AmbiguousSheet(sheetCount)
		}
		return nil, errors.UnreadableDocument(fmt.Errorf("worksheet could not be read"))
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}

	return l.buildDataset(sheet.Name, rows, func(_, _ int, raw string) tabular.Cell {
		return legacyCell(raw)
	}), nil
}

// buildDataset converts raw rows into a Dataset. The first row is the
// header; makeCell tags each remaining value with its scalar kind.
func (l *Loader) buildDataset(sheet string, rows [][]string, makeCell func(col, row int, raw string) tabular.Cell) *tabular.Dataset {
	ds := &tabular.Dataset{SourceSheet: sheet}
	if len(rows) == 0 {
		return ds
	}

	for _, header := range rows[0] {
		ds.Columns = append(ds.Columns, strings.TrimSpace(header))
	}

	for i := 1; i < len(rows); i++ {
		rowNum := i + 1 // sheet rows are 1-based, header occupies row 1
		rec := tabular.Record{Row: rowNum}
		for j := range ds.Columns {
			var raw string
			if j < len(rows[i]) {
				raw = rows[i][j]
			}
			rec.Cells = append(rec.Cells, makeCell(j+1, rowNum, raw))
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds
}

// typedCell tags a cell using the workbook's native cell type, falling
// back to text when the type is unavailable.
func typedCell(f *excelize.File, sheet string, col, row int, raw string) tabular.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return tabular.Cell{Kind: tabular.CellEmpty}
	}

	cellRef, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return tabular.NewTextCell(raw)
	}
	cellType, err := f.GetCellType(sheet, cellRef)
	if err != nil {
		return tabular.NewTextCell(raw)
	}

	switch cellType {
	case excelize.CellTypeNumber:
		if v, castErr := cast.ToFloat64E(trimmed); castErr == nil {
			return tabular.NewNumberCell(raw, v)
		}
		// Date-formatted numbers render as formatted strings.
		if t, castErr := cast.ToTimeE(trimmed); castErr == nil {
			return tabular.NewTimeCell(raw, t)
		}
	case excelize.CellTypeBool:
		if b, castErr := cast.ToBoolE(trimmed); castErr == nil {
			return tabular.NewBoolCell(raw, b)
		}
	case excelize.CellTypeDate:
		if t, castErr := cast.ToTimeE(trimmed); castErr == nil {
			return tabular.NewTimeCell(raw, t)
		}
	}
	return tabular.NewTextCell(raw)
}

// legacyCell tags a legacy cell from its string form alone; BIFF reads
// surface every value as text.
func legacyCell(raw string) tabular.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return tabular.Cell{Kind: tabular.CellEmpty}
	}
	if v, err := cast.ToFloat64E(trimmed); err == nil {
		return tabular.NewNumberCell(raw, v)
	}
	if b, err := cast.ToBoolE(trimmed); err == nil {
		return tabular.NewBoolCell(raw, b)
	}
	return tabular.NewTextCell(raw)
}
