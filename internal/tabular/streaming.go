package tabular

// streaming.go wraps file readers so text input arrives as clean UTF-8:
//
//   - a BOM (UTF-8 or UTF-16) is stripped and selects the decoding
//   - invalid UTF-8 sequences become U+FFFD
//   - reading past the configured size limit fails with ErrFileTooLarge
//
// Use WrapForDecoding to apply the transforms in the correct order.

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CountingReader wraps an io.Reader to track bytes read and enforce a limit.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Limit     int64 // 0 means unlimited
}

// NewCountingReader creates a counting reader that fails once more than
// limit bytes have been read. A limit <= 0 disables the check.
func NewCountingReader(r io.Reader, limit int64) *CountingReader {
	return &CountingReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Limit > 0 && r.BytesRead > r.Limit {
		return n, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, r.Limit)
	}
	return n, err
}

// WrapForDecoding returns a reader yielding UTF-8 text from r.
//
// The order matters: raw bytes are counted first so the limit applies to the
// file size, then the BOM decides between UTF-8 and UTF-16 decoding.
func WrapForDecoding(r io.Reader, limit int64) io.Reader {
	counted := NewCountingReader(r, limit)
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(counted, decoder)
}
