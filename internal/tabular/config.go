// Package tabular reads delimited text files and Excel workbooks into
// [table.Table] values.
//
// It is the "load tabular file" collaborator of the importer: it owns format
// detection, separator inference, header handling and missing-value
// recognition. Callers describe what they want with a [Config]; a zero Config
// means "infer everything".
package tabular

import (
	"errors"
	"slices"
)

// HeaderMode selects how the first row of a file is interpreted.
type HeaderMode string

const (
	// HeaderInfer treats the first row as column names.
	HeaderInfer HeaderMode = "infer"
	// HeaderNone treats every row as data and names columns "0", "1", ...
	HeaderNone HeaderMode = "none"
)

// Config is the normalized option set consumed by [Loader.Load].
// Each field is independently optional.
type Config struct {
	// Separator is the field delimiter. nil lets the loader infer it from the
	// file extension or content. A single character is a literal delimiter;
	// anything longer is a regular expression.
	Separator *string

	// Header defaults to HeaderInfer when empty.
	Header HeaderMode

	// MissingValues is an extra token recognized as "no value", on top of
	// DefaultMissingValues.
	MissingValues *string
}

// headerMode returns the effective header mode.
func (c Config) headerMode() HeaderMode {
	if c.Header == "" {
		return HeaderInfer
	}
	return c.Header
}

// DefaultMissingValues are recognized as missing in every file.
var DefaultMissingValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN",
	"-NaN", "-nan", "1.#IND", "1.#QNAN", "<NA>", "N/A",
	"NA", "NULL", "NaN", "n/a", "nan", "null",
}

// missingSet returns the lookup set of missing-value tokens for c.
func (c Config) missingSet() map[string]struct{} {
	set := make(map[string]struct{}, len(DefaultMissingValues)+1)
	for _, tok := range DefaultMissingValues {
		set[tok] = struct{}{}
	}
	if c.MissingValues != nil {
		set[*c.MissingValues] = struct{}{}
	}
	return set
}

var (
	// ErrEmptyFile is returned when a file has no non-blank rows.
	ErrEmptyFile = errors.New("empty file")

	// ErrNoDataRows is returned when a file holds a header row and nothing else.
	ErrNoDataRows = errors.New("no data rows after header")

	// ErrFileTooLarge is returned when a file exceeds Loader.MaxFileSize.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidSeparator is returned for separators that cannot delimit fields.
	ErrInvalidSeparator = errors.New("invalid separator")
)

// excelExtensions are dispatched to the workbook reader.
var excelExtensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm"}

func isExcel(ext string) bool {
	return slices.Contains(excelExtensions, ext)
}
