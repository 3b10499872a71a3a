package excel

import (
	"testing"

	"github.com/Ivanfun/ivan-excel-type-checker/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		hint    string
		want    Format
		wantErr bool
	}{
		{name: "xlsx with dot", hint: ".xlsx", want: FormatXLSX},
		{name: "xlsx without dot", hint: "xlsx", want: FormatXLSX},
		{name: "uppercase", hint: ".XLSX", want: FormatXLSX},
		{name: "legacy", hint: ".xls", want: FormatXLS},
		{name: "macro enabled", hint: ".xlsm", want: FormatXLSM},
		{name: "csv rejected", hint: ".csv", wantErr: true},
		{name: "empty rejected", hint: "", wantErr: true},
		{name: "text rejected", hint: ".txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.hint)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		want   string
	}{
		{name: "xlsx keeps format", input: "data.xlsx", format: FormatXLSX, want: "result_data.xlsx"},
		{name: "legacy converts to modern", input: "old.xls", format: FormatXLS, want: "result_old.xlsx"},
		{name: "macro workbook keeps format", input: "macro.xlsm", format: FormatXLSM, want: "result_macro.xlsm"},
		{name: "path stripped", input: "dir/sub/data.xlsx", format: FormatXLSX, want: "result_data.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFilename(tt.input, tt.format))
		})
	}
}

func TestFormatRebuilds(t *testing.T) {
	assert.True(t, FormatXLS.Rebuilds())
	assert.False(t, FormatXLSX.Rebuilds())
	assert.False(t, FormatXLSM.Rebuilds())
}
