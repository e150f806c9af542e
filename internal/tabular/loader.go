package tabular

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/tsimport/internal/table"
)

// DefaultMaxFileSize is used when Loader.MaxFileSize is not positive.
const DefaultMaxFileSize = 100 << 20

// Loader reads tabular files from disk. The zero value is ready to use.
type Loader struct {
	// MaxFileSize rejects larger files with ErrFileTooLarge.
	MaxFileSize int64
}

// NewLoader creates a loader with the given size limit.
func NewLoader(maxFileSize int64) *Loader {
	return &Loader{MaxFileSize: maxFileSize}
}

func (l *Loader) limit() int64 {
	if l == nil || l.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return l.MaxFileSize
}

// Load reads the file at path into a table named after the file's base name
// without extension. It performs a single scoped read and holds no resources
// afterwards.
func (l *Loader) Load(ctx context.Context, path string, cfg Config) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load cancelled: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open %s: is a directory", filepath.Base(path))
	}
	if info.Size() > l.limit() {
		return nil, fmt.Errorf("%s: %w: %d bytes exceeds %d", filepath.Base(path), ErrFileTooLarge, info.Size(), l.limit())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	return l.Read(ctx, f, filepath.Base(path), cfg)
}

// Read parses tabular data from r. fileName supplies the extension used for
// format and separator inference and the resulting table name.
func (l *Loader) Read(ctx context.Context, r io.Reader, fileName string, cfg Config) (*table.Table, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	name := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))

	logger := slog.Default().With("file", fileName)

	if isExcel(ext) {
		t, err := readWorkbook(NewCountingReader(r, l.limit()), name, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fileName, err)
		}
		logger.Debug("workbook loaded", "columns", len(t.Columns), "rows", t.Rows())
		return t, nil
	}

	raw, err := io.ReadAll(WrapForDecoding(r, l.limit()))
	if err != nil {
		return nil, fmt.Errorf("%s: read: %w", fileName, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load cancelled: %w", err)
	}

	content := string(raw)
	sep := resolveSeparator(cfg, ext, content)
	logger.Debug("separator resolved", "separator", sep, "explicit", cfg.Separator != nil)

	records, err := splitRecords(content, sep)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}

	t, err := buildTable(name, records, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	logger.Debug("table loaded", "columns", len(t.Columns), "rows", t.Rows())
	return t, nil
}
