package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tsimport/internal/importer"
	"github.com/JonMunkholm/tsimport/internal/logging"
	"github.com/JonMunkholm/tsimport/internal/settings"
	"github.com/JonMunkholm/tsimport/internal/tabular"
	"github.com/google/uuid"
)

// multipartMemory is the in-memory part of multipart parsing; larger files
// spill to disk.
const multipartMemory = 32 << 20

// Import form fields, mirroring the import dialog.
const (
	fieldFile         = "file"
	fieldSepFromExt   = "separator_from_extension"
	fieldSeparator    = "separator"
	fieldNoHeader     = "no_header"
	fieldInterpolate  = "interpolate"
	fieldMissingToken = "missing_value"
)

// ImportResponse describes a successfully imported table.
type ImportResponse struct {
	ViewerID uuid.UUID           `json:"viewerId"`
	Offset   int                 `json:"offset"`
	Name     string              `json:"name"`
	Columns  []string            `json:"columns"`
	Rows     int                 `json:"rows"`
	Missing  int                 `json:"missing"`
	Filled   int                 `json:"filled"`
	Notice   string              `json:"notice,omitempty"`
	Defaults settings.Parameters `json:"defaults"`
}

// importOptionsFromForm builds ImportOptions from the submitted form.
// This is the only place request fields turn into import semantics.
func importOptionsFromForm(r *http.Request) (importer.ImportOptions, error) {
	fromExt, err := formBool(r, fieldSepFromExt, true)
	if err != nil {
		return importer.ImportOptions{}, err
	}
	noHeader, err := formBool(r, fieldNoHeader, false)
	if err != nil {
		return importer.ImportOptions{}, err
	}
	interpolate, err := formBool(r, fieldInterpolate, false)
	if err != nil {
		return importer.ImportOptions{}, err
	}

	opts := importer.ImportOptions{
		Separator:          importer.SeparatorFromExtension(),
		HeaderPresent:      !noHeader,
		MissingValueToken:  r.FormValue(fieldMissingToken),
		InterpolateMissing: interpolate,
	}
	if !fromExt {
		opts.Separator = importer.ExplicitSeparator(r.FormValue(fieldSeparator))
	}
	return opts, nil
}

func formBool(r *http.Request, key string, def bool) (bool, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return def, nil
	}
	if raw == "on" {
		return true, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, raw)
	}
	return b, nil
}

// handleImport accepts a multipart upload, imports it with the submitted
// options and opens a viewer entry for the result.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, fmt.Errorf("%w: request exceeds %d bytes", tabular.ErrFileTooLarge, maxErr.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		respondBadRequest(w, r, "expected a multipart form with a file field")
		return
	}

	opts, err := importOptionsFromForm(r)
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	file, header, err := r.FormFile(fieldFile)
	if err != nil {
		respondBadRequest(w, r, "no file provided")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) || strings.Contains(header.Filename, "..") {
		respondBadRequest(w, r, fmt.Sprintf("invalid filename: %q", header.Filename))
		return
	}

	// The upload keeps its original name so the table is named after it.
	dir, err := os.MkdirTemp(s.uploadDir(), "import-*")
	if err != nil {
		respondError(w, r, fmt.Errorf("create upload dir: %w", err), http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, name)
	if err := saveUpload(path, file); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if err := s.limiter.Acquire(r.Context()); err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	res := s.resolver.Import(r.Context(), path, opts)
	s.limiter.Release()

	if !res.OK() {
		status := http.StatusUnprocessableEntity
		if errors.Is(res.Err, tabular.ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		respondError(w, r, res.Err, status)
		return
	}

	entry := s.viewers.Open(res.Table)
	logging.WithFields(r.Context(), "viewer_id", entry.ID, "offset", entry.Offset).
		Info("viewer opened", "table", res.Table.Name)
	writeJSON(w, http.StatusCreated, ImportResponse{
		ViewerID: entry.ID,
		Offset:   entry.Offset,
		Name:     res.Table.Name,
		Columns:  res.Table.Headers(),
		Rows:     res.Table.Rows(),
		Missing:  res.Missing,
		Filled:   res.Filled,
		Notice:   res.Notice,
		Defaults: s.Params(),
	})
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("store upload: %w", err)
	}
	return dst.Close()
}
