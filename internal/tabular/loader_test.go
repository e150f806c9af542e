package tabular

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func strPtr(s string) *string { return &s }

func TestLoad_CSVWithHeader(t *testing.T) {
	path := writeFile(t, "signals.csv", "time,cell1,cell2\n0,1.5,2\n1,NA,3\n2,2.5,\n")

	tbl, err := NewLoader(0).Load(context.Background(), path, Config{})
	require.NoError(t, err)

	assert.Equal(t, "signals", tbl.Name)
	assert.Equal(t, []string{"time", "cell1", "cell2"}, tbl.Headers())
	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, 2, tbl.CountMissing())

	c, _ := tbl.Column("cell1")
	assert.Equal(t, 1.5, c.Values[0])
	assert.True(t, math.IsNaN(c.Values[1]))
}

func TestLoad_NoHeaderAssignsNumericNames(t *testing.T) {
	path := writeFile(t, "raw.csv", "1,2\n3,4\n")

	tbl, err := NewLoader(0).Load(context.Background(), path, Config{Header: HeaderNone})
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1"}, tbl.Headers())
	assert.Equal(t, 2, tbl.Rows())
}

func TestLoad_SeparatorFromExtension(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"tsv", "a.tsv", "x\ty\n1\t2\n"},
		{"txt whitespace", "a.txt", "x   y\n  1   2\n"},
		{"unknown extension sniffed", "a.data", "x;y\n1;2\n"},
		{"pipe sniffed", "a", "x|y\n1|2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			tbl, err := NewLoader(0).Load(context.Background(), path, Config{})
			require.NoError(t, err)
			assert.Equal(t, []string{"x", "y"}, tbl.Headers())
			y, _ := tbl.Column("y")
			assert.Equal(t, []float64{2}, y.Values)
		})
	}
}

func TestLoad_ExplicitSeparators(t *testing.T) {
	tests := []struct {
		name    string
		sep     string
		content string
	}{
		{"semicolon in csv file", ";", "x;y\n1;2\n"},
		{"multi character", "::", "x::y\n1::2\n"},
		{"regex", `\s*,\s*`, "x , y\n1 ,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "data.csv", tt.content)
			tbl, err := NewLoader(0).Load(context.Background(), path, Config{Separator: strPtr(tt.sep)})
			require.NoError(t, err)
			assert.Equal(t, []string{"x", "y"}, tbl.Headers())
		})
	}
}

func TestLoad_InvalidRegexSeparator(t *testing.T) {
	path := writeFile(t, "data.csv", "x,y\n1,2\n")
	_, err := NewLoader(0).Load(context.Background(), path, Config{Separator: strPtr("([")})
	assert.True(t, errors.Is(err, ErrInvalidSeparator))
}

func TestLoad_CustomMissingToken(t *testing.T) {
	path := writeFile(t, "data.csv", "x\n1\n-999\n3\n")

	_, err := NewLoader(0).Load(context.Background(), path, Config{})
	require.NoError(t, err, "-999 is numeric without an override")

	tbl, err := NewLoader(0).Load(context.Background(), path, Config{MissingValues: strPtr("-999")})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.CountMissing())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIs  error
		wantMsg string
	}{
		{name: "empty", content: "\n\n", wantIs: ErrEmptyFile},
		{name: "header only", content: "a,b\n", wantIs: ErrNoDataRows},
		{name: "non numeric", content: "a\nfoo\n", wantMsg: `line 2 column "a": non-numeric value "foo"`},
		{name: "infinite", content: "a\n1\ninf\n3\n", wantMsg: `line 3 column "a": non-finite value "inf"`},
		{name: "negative infinity", content: "a\n-Infinity\n", wantMsg: `line 2 column "a": non-finite value "-Infinity"`},
		{name: "too many fields", content: "a\n1,2\n", wantMsg: "line 2: expected 1 fields, saw 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", tt.content)
			_, err := NewLoader(0).Load(context.Background(), path, Config{})
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_ShortRowsPaddedWithMissing(t *testing.T) {
	path := writeFile(t, "short.csv", "a,b\n1,2\n3\n")
	tbl, err := NewLoader(0).Load(context.Background(), path, Config{})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.CountMissing())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader(0).Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Config{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_FileTooLarge(t *testing.T) {
	path := writeFile(t, "big.csv", "a\n"+strings.Repeat("1\n", 100))
	_, err := NewLoader(10).Load(context.Background(), path, Config{})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLoad_CancelledContext(t *testing.T) {
	path := writeFile(t, "a.csv", "a\n1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(0).Load(ctx, path, Config{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_BOMAndUTF16(t *testing.T) {
	utf8BOM := "\xEF\xBB\xBFa,b\n1,2\n"
	path := writeFile(t, "bom.csv", utf8BOM)
	tbl, err := NewLoader(0).Load(context.Background(), path, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Headers())

	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	utf16, err := enc.String("a,b\n1,2\n")
	require.NoError(t, err)
	path = writeFile(t, "utf16.csv", utf16)
	tbl, err = NewLoader(0).Load(context.Background(), path, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Headers())
}

func TestLoad_Excel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"time", "signal"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{0, 1.0}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{1, "NA"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{2, 3.0}))

	path := filepath.Join(t.TempDir(), "workbook.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := NewLoader(0).Load(context.Background(), path, Config{Separator: strPtr(";")})
	require.NoError(t, err)

	assert.Equal(t, "workbook", tbl.Name)
	assert.Equal(t, []string{"time", "signal"}, tbl.Headers())
	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, 1, tbl.CountMissing())
}

func TestSniffSeparator(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"comma", "a,b,c\n1,2,3\n", ","},
		{"tab", "a\tb\n1\t2\n", "\t"},
		{"semicolon with decimal commas", "a;b\n1,5;2,5\n", ";"},
		{"whitespace", "a  b\n1  2\n", WhitespaceSeparator},
		{"single column", "a\n1\n", ","},
		{"empty", "", ","},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffSeparator(tt.content))
		})
	}
}

func TestExtensionSeparator(t *testing.T) {
	sep, ok := ExtensionSeparator(".csv")
	assert.True(t, ok)
	assert.Equal(t, ",", sep)

	_, ok = ExtensionSeparator(".parquet")
	assert.False(t, ok)
}
