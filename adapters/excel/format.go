package excel

import (
	"path/filepath"
	"strings"

	"github.com/Ivanfun/ivan-excel-type-checker/internal/errors"
)

// Format identifies a supported spreadsheet format by file extension.
type Format string

const (
	FormatXLSX Format = ".xlsx"
	FormatXLS  Format = ".xls"
	FormatXLSM Format = ".xlsm"
)

// outputPrefix is prepended to every derived report filename.
const outputPrefix = "result_"

// ParseFormat validates a format hint (a file extension, with or without
// the leading dot) against the supported set.
func ParseFormat(hint string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(hint))
	if normalized != "" && !strings.HasPrefix(normalized, ".") {
		normalized = "." + normalized
	}
	switch Format(normalized) {
	case FormatXLSX, FormatXLS, FormatXLSM:
		return Format(normalized), nil
	}
	return "", errors.UnsupportedFormat(hint)
}

// FormatFromFilename derives the format hint from a filename extension.
func FormatFromFilename(filename string) (Format, error) {
	return ParseFormat(filepath.Ext(filename))
}

// Rebuilds reports whether the format lacks in-place edit support and
// must have its primary sheet reconstructed. Legacy BIFF workbooks have
// no writer, so their reports are rebuilt as modern workbooks.
func (f Format) Rebuilds() bool {
	return f == FormatXLS
}

// OutputFormat returns the format the report is emitted in. Legacy
// input is always emitted as a modern workbook; everything else keeps
// its original format, macros included.
func (f Format) OutputFormat() Format {
	if f == FormatXLS {
		return FormatXLSX
	}
	return f
}

// OutputFilename derives the report filename from the input filename:
// fixed prefix, original base name, output-format extension.
func OutputFilename(inputFilename string, format Format) string {
	base := filepath.Base(inputFilename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return outputPrefix + base + string(format.OutputFormat())
}
