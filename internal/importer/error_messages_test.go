package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/JonMunkholm/tsimport/internal/tabular"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "missing file", err: fmt.Errorf("open x.csv: %w", os.ErrNotExist), wantCode: "IMP001"},
		{name: "too large", err: fmt.Errorf("x.csv: %w", tabular.ErrFileTooLarge), wantCode: "IMP002"},
		{name: "empty", err: fmt.Errorf("x.csv: %w", tabular.ErrEmptyFile), wantCode: "IMP003"},
		{name: "header only", err: fmt.Errorf("x.csv: %w", tabular.ErrNoDataRows), wantCode: "IMP004"},
		{name: "non numeric", err: errors.New(`x.csv: line 3 column "a": non-numeric value "x"`), wantCode: "IMP005"},
		{name: "infinite", err: errors.New(`x.csv: line 3 column "a": non-finite value "inf"`), wantCode: "IMP005"},
		{name: "separator", err: fmt.Errorf("x.csv: %w: %q", tabular.ErrInvalidSeparator, "(["), wantCode: "IMP006"},
		{name: "too many fields", err: errors.New("x.csv: line 2: expected 1 fields, saw 3"), wantCode: "IMP007"},
		{name: "workbook", err: errors.New("x.xlsx: open workbook: zip: not a valid zip file"), wantCode: "IMP008"},
		{name: "cancelled", err: fmt.Errorf("load cancelled: %w", context.Canceled), wantCode: "IMP009"},
		{name: "busy", err: ErrTooManyImports, wantCode: "IMP010"},
		{name: "unknown", err: errors.New("something odd"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Detail != tt.err.Error() {
				t.Errorf("Detail = %q, want %q", got.Detail, tt.err.Error())
			}
			if tt.err != nil && got.Message == "" {
				t.Error("Message should not be empty")
			}
		})
	}
}
