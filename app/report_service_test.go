package app

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	adapter "github.com/Ivanfun/ivan-excel-type-checker/adapters/excel"
	"github.com/Ivanfun/ivan-excel-type-checker/internal/errors"
	"github.com/Ivanfun/ivan-excel-type-checker/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newService(t *testing.T) (*ReportService, *storage.OutputStore) {
	t.Helper()
	store, err := storage.NewOutputStore(filepath.Join(t.TempDir(), "out"), true)
	require.NoError(t, err)
	return NewReportService(store, nil), store
}

func workbookBytes(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestAnalyzeAndReport(t *testing.T) {
	service, store := newService(t)
	input := workbookBytes(t, [][]interface{}{
		{"Name", "Data Type"},
		{"x", "int"},
		{"x", "int"},
		{"x", "str"},
	})

	name, err := service.AnalyzeAndReport(context.Background(), input, ".xlsx", "fields.xlsx")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "result_fields"), "got %q", name)
	assert.Equal(t, ".xlsx", filepath.Ext(name))

	path, err := store.Resolve(name)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), adapter.SummarySheetName)

	rows, err := f.GetRows(adapter.SummarySheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "str", rows[2][1])
	assert.Equal(t, "1", rows[2][2])
}

func TestAnalyzeAndReportRejectsUnsupportedHint(t *testing.T) {
	service, _ := newService(t)

	_, err := service.AnalyzeAndReport(context.Background(), bytes.NewReader(nil), ".csv", "data.csv")
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))
}

func TestAnalyzeAndReportMissingColumn(t *testing.T) {
	service, _ := newService(t)
	input := workbookBytes(t, [][]interface{}{
		{"Name", "Description"},
		{"x", "whatever"},
	})

	_, err := service.AnalyzeAndReport(context.Background(), input, ".xlsx", "data.xlsx")
	require.Error(t, err)
	assert.Equal(t, errors.CodeMissingRequiredColumns, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Data Type")
}

func TestAnalyzeAndReportCorruptStream(t *testing.T) {
	service, _ := newService(t)

	_, err := service.AnalyzeAndReport(context.Background(),
		strings.NewReader("definitely not a workbook"), ".xlsx", "junk.xlsx")
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnreadableDocument, errors.GetCode(err))
}

func TestAnalyzeAndReportNoFailureArtifacts(t *testing.T) {
	service, store := newService(t)

	_, err := service.AnalyzeAndReport(context.Background(),
		strings.NewReader("broken"), ".xlsx", "junk.xlsx")
	require.Error(t, err)

	// Nothing is published on failure.
	entries, globErr := filepath.Glob(filepath.Join(store.Dir(), "*"))
	require.NoError(t, globErr)
	assert.Empty(t, entries)
}

func TestAnalyzeAndReportCancelledContext(t *testing.T) {
	service, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := workbookBytes(t, [][]interface{}{
		{"Name", "Data Type"},
		{"x", "int"},
	})
	_, err := service.AnalyzeAndReport(ctx, input, ".xlsx", "data.xlsx")
	require.Error(t, err)
}
