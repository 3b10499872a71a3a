package excel

import (
	"fmt"
	"strings"

	"github.com/Ivanfun/ivan-excel-type-checker/domain/consistency"
	"github.com/Ivanfun/ivan-excel-type-checker/domain/tabular"
	"github.com/Ivanfun/ivan-excel-type-checker/internal"
	"github.com/Ivanfun/ivan-excel-type-checker/internal/errors"
	"github.com/xuri/excelize/v2"
)

// SummarySheetName is the reserved name of the generated summary sheet.
// A pre-existing sheet with this name is replaced, so reprocessing an
// already-processed document never accumulates summary sheets.
const SummarySheetName = "Summary"

// Composer renders an analysis back onto a spreadsheet-shaped report:
// original content preserved, flagged rows highlighted, a summary sheet
// appended, and summary entries hyperlinked to their source rows.
type Composer struct {
	logger *internal.Logger
}

// NewComposer creates a composer.
func NewComposer(logger *internal.Logger) *Composer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Composer{logger: logger}
}

// sheetStrategy prepares the workbook holding the primary sheet. The
// two implementations reflect a real format-capability asymmetry:
// modern workbooks are styled in place, legacy ones are rebuilt.
type sheetStrategy interface {
	Open() (*excelize.File, string, error)
}

// InPlaceEditStrategy styles the original workbook directly. Used for
// formats excelize can both read and write, macro content included.
type InPlaceEditStrategy struct {
	SourcePath string
	Sheet      string
}

func (s InPlaceEditStrategy) Open() (*excelize.File, string, error) {
	f, err := excelize.OpenFile(s.SourcePath)
	if err != nil {
		return nil, "", errors.UnreadableDocument(err)
	}

	sheet := s.Sheet
	if idx, idxErr := f.GetSheetIndex(sheet); idxErr != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}
	return f, sheet, nil
}

// RebuildStrategy reconstructs the primary sheet in a fresh modern
// workbook: header row first, then every record's values at its
// original row position. Used for formats with no writer support.
type RebuildStrategy struct {
	Dataset *tabular.Dataset
}

func (s RebuildStrategy) Open() (*excelize.File, string, error) {
	f := excelize.NewFile()

	sheet := s.Dataset.SourceSheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			f.Close()
			return nil, "", errors.Wrapf(err, "failed to name rebuilt sheet %q", sheet)
		}
	}

	header := make([]interface{}, len(s.Dataset.Columns))
	for i, col := range s.Dataset.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, "", errors.Wrap(err, "failed to write rebuilt header row")
	}

	for _, rec := range s.Dataset.Records {
		values := make([]interface{}, len(rec.Cells))
		for i, cell := range rec.Cells {
			values[i] = cell.Value()
		}
		anchor, err := excelize.CoordinatesToCellName(1, rec.Row)
		if err != nil {
			f.Close()
			return nil, "", errors.Wrapf(err, "invalid rebuilt row %d", rec.Row)
		}
		if err := f.SetSheetRow(sheet, anchor, &values); err != nil {
			f.Close()
			return nil, "", errors.Wrapf(err, "failed to write rebuilt row %d", rec.Row)
		}
	}

	return f, sheet, nil
}

// Compose produces the report file at outputPath. Nothing is written on
// failure; the caller publishes the file only after Compose returns nil.
func (c *Composer) Compose(ds *tabular.Dataset, result consistency.Result, format Format, sourcePath, outputPath string) error {
	var strategy sheetStrategy
	if format.Rebuilds() {
		strategy = RebuildStrategy{Dataset: ds}
	} else {
		strategy = InPlaceEditStrategy{SourcePath: sourcePath, Sheet: ds.SourceSheet}
	}

	f, sheet, err := strategy.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := c.highlightFlagged(f, sheet, ds); err != nil {
		return err
	}
	if err := c.writeSummary(f, ds, sheet, result.Summary); err != nil {
		return err
	}

	if err := f.SaveAs(outputPath); err != nil {
		return errors.Wrapf(err, "failed to save report to %s", outputPath)
	}
	c.logger.Info("[Composer] report composed: %s (%d flagged rows, %d summary rows)",
		outputPath, result.FlaggedRows, len(result.Summary))
	return nil
}

// highlightFlagged applies a full-row fill to every flagged record,
// bounded by the sheet's used range.
func (c *Composer) highlightFlagged(f *excelize.File, sheet string, ds *tabular.Dataset) error {
	if len(ds.Columns) == 0 {
		return nil
	}

	anyFlagged := false
	for _, rec := range ds.Records {
		if rec.Flagged {
			anyFlagged = true
			break
		}
	}
	if !anyFlagged {
		return nil
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFFF00"}, Pattern: 1},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create highlight style")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return errors.Wrapf(err, "failed to read sheet %q for highlighting", sheet)
	}
	maxRow := len(rows)

	lastCol, err := excelize.ColumnNumberToName(len(ds.Columns))
	if err != nil {
		return errors.Wrap(err, "failed to resolve last highlight column")
	}

	for _, rec := range ds.Records {
		if !rec.Flagged || rec.Row > maxRow {
			continue
		}
		top := fmt.Sprintf("A%d", rec.Row)
		bottom := fmt.Sprintf("%s%d", lastCol, rec.Row)
		if err := f.SetCellStyle(sheet, top, bottom, styleID); err != nil {
			return errors.Wrapf(err, "failed to highlight row %d", rec.Row)
		}
	}
	return nil
}

// writeSummary replaces the reserved summary sheet with a fresh one and
// wires navigation links back to the primary sheet.
func (c *Composer) writeSummary(f *excelize.File, ds *tabular.Dataset, sheet string, summary consistency.Summary) error {
	if idx, err := f.GetSheetIndex(SummarySheetName); err == nil && idx >= 0 {
		if err := f.DeleteSheet(SummarySheetName); err != nil {
			return errors.Wrap(err, "failed to remove stale summary sheet")
		}
		c.logger.Debug("[Composer] removed pre-existing %q sheet", SummarySheetName)
	}
	if _, err := f.NewSheet(SummarySheetName); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}

	header := []interface{}{tabular.ColumnName, tabular.ColumnDataType, "Count"}
	if err := f.SetSheetRow(SummarySheetName, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write summary header")
	}
	for i, row := range summary {
		values := []interface{}{row.Name, row.DataType, row.Count}
		anchor := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(SummarySheetName, anchor, &values); err != nil {
			return errors.Wrapf(err, "failed to write summary row %d", i+1)
		}
	}

	return c.linkSummary(f, ds, sheet, summary)
}

// linkSummary turns each summary Name cell into a same-document
// hyperlink to the first matching row of the primary sheet. A missing
// Name column degrades to a plain, non-navigable summary.
func (c *Composer) linkSummary(f *excelize.File, ds *tabular.Dataset, sheet string, summary consistency.Summary) error {
	nameIdx := ds.ColumnIndex(tabular.ColumnName)
	if nameIdx < 0 {
		c.logger.Warn("[Composer] sheet %q has no %q column, skipping summary hyperlinks",
			sheet, tabular.ColumnName)
		return nil
	}
	if len(summary) == 0 {
		return nil
	}

	colName, err := excelize.ColumnNumberToName(nameIdx + 1)
	if err != nil {
		return errors.Wrap(err, "failed to resolve Name column letter")
	}
	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0000FF", Underline: "single"},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create link style")
	}

	for i, row := range summary {
		targetRow := firstRowMatching(ds, nameIdx, row.Name)
		if targetRow < 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+2)
		display := strings.ReplaceAll(row.Name, `"`, `""`)
		formula := fmt.Sprintf(`HYPERLINK("#%s!%s%d","%s")`,
			quoteSheetName(sheet), colName, targetRow, display)
		if err := f.SetCellFormula(SummarySheetName, cell, formula); err != nil {
			return errors.Wrapf(err, "failed to link summary row %d", i+1)
		}
		if err := f.SetCellStyle(SummarySheetName, cell, cell, linkStyle); err != nil {
			return errors.Wrapf(err, "failed to style summary link %d", i+1)
		}
	}
	return nil
}

// firstRowMatching returns the sheet row of the first record whose Name
// matches (case-insensitive, trimmed), or -1.
func firstRowMatching(ds *tabular.Dataset, nameIdx int, name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, rec := range ds.Records {
		if strings.ToLower(rec.CellAt(nameIdx).String()) == want {
			return rec.Row
		}
	}
	return -1
}

// quoteSheetName quotes a sheet name for use inside a formula reference.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
