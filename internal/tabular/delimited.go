package tabular

import (
	"encoding/csv"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/tsimport/internal/table"
)

// splitRecords splits text content into records using sep.
// One-character separators go through encoding/csv so quoted fields work;
// longer separators are compiled as regular expressions. Blank lines are
// skipped.
func splitRecords(content, sep string) ([][]string, error) {
	if utf8.RuneCountInString(sep) == 1 {
		return splitLiteral(content, sep)
	}
	return splitRegexp(content, sep)
}

func splitLiteral(content, sep string) ([][]string, error) {
	delim, _ := utf8.DecodeRuneInString(sep)
	if delim == '"' || delim == '\r' || delim == '\n' || delim == utf8.RuneError {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeparator, sep)
	}

	r := csv.NewReader(strings.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse delimited text: %w", err)
	}

	out := records[:0]
	for _, rec := range records {
		if !isBlankRecord(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func splitRegexp(content, sep string) ([][]string, error) {
	re, err := regexp.Compile(sep)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSeparator, sep, err)
	}

	// Whitespace-style patterns ignore padding at line ends so aligned columns
	// do not produce empty leading fields.
	trimEdges := re.MatchString(" ") || re.MatchString("\t")

	var out [][]string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if trimEdges {
			line = strings.TrimSpace(line)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, re.Split(line, -1))
	}
	return out, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// buildTable converts raw records into a numeric table according to cfg.
// Errors name 1-based record numbers, counting the header row.
func buildTable(name string, records [][]string, cfg Config) (*table.Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	var headers []string
	data := records
	if cfg.headerMode() == HeaderInfer {
		headers = cleanHeaders(records[0])
		data = records[1:]
		if len(data) == 0 {
			return nil, ErrNoDataRows
		}
	} else {
		width := 0
		for _, rec := range records {
			width = max(width, len(rec))
		}
		headers = make([]string, width)
		for i := range headers {
			headers[i] = strconv.Itoa(i)
		}
	}

	missing := cfg.missingSet()
	firstLine := 1
	if cfg.headerMode() == HeaderInfer {
		firstLine = 2
	}

	rows := make([][]float64, len(data))
	for r, rec := range data {
		line := firstLine + r
		if len(rec) > len(headers) {
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(headers), len(rec))
		}
		row := make([]float64, len(headers))
		for c := range headers {
			if c >= len(rec) {
				row[c] = math.NaN()
				continue
			}
			v, err := parseCell(rec[c], missing)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, headers[c], err)
			}
			row[c] = v
		}
		rows[r] = row
	}

	return table.New(name, headers, rows)
}

// cleanHeaders trims header names and names blank ones "Unnamed: i".
func cleanHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = h
	}
	return out
}

// parseCell returns NaN for missing tokens and the parsed value otherwise.
// Infinite values and NaN spellings outside the missing set are errors.
func parseCell(raw string, missing map[string]struct{}) (float64, error) {
	if _, ok := missing[raw]; ok {
		return math.NaN(), nil
	}
	s := strings.TrimSpace(raw)
	if _, ok := missing[s]; ok {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric value %q", raw)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite value %q", raw)
	}
	return v, nil
}
