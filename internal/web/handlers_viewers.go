package web

import (
	"math"
	"net/http"
	"time"

	"github.com/JonMunkholm/tsimport/internal/viewer"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ViewerSummary is one entry of the open viewer list.
type ViewerSummary struct {
	ID       uuid.UUID `json:"id"`
	Seq      int       `json:"seq"`
	Offset   int       `json:"offset"`
	OpenedAt time.Time `json:"openedAt"`
	Name     string    `json:"name"`
	Columns  int       `json:"columns"`
	Rows     int       `json:"rows"`
}

// ColumnData is a column with missing and non-finite samples encoded as null.
type ColumnData struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// ViewerData is the full table behind a viewer.
type ViewerData struct {
	ViewerSummary
	Data []ColumnData `json:"data"`
}

func summarize(e viewer.Entry) ViewerSummary {
	return ViewerSummary{
		ID:       e.ID,
		Seq:      e.Seq,
		Offset:   e.Offset,
		OpenedAt: e.OpenedAt,
		Name:     e.Table.Name,
		Columns:  len(e.Table.Columns),
		Rows:     e.Table.Rows(),
	}
}

func (s *Server) handleListViewers(w http.ResponseWriter, r *http.Request) {
	entries := s.viewers.List()
	out := make([]ViewerSummary, len(entries))
	for i, e := range entries {
		out[i] = summarize(e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) viewerFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid viewer id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleViewerData(w http.ResponseWriter, r *http.Request) {
	id, ok := s.viewerFromPath(w, r)
	if !ok {
		return
	}
	e, ok := s.viewers.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found", Message: "Viewer not found", Code: "VIEW001"})
		return
	}

	data := make([]ColumnData, len(e.Table.Columns))
	for i, c := range e.Table.Columns {
		vals := make([]*float64, len(c.Values))
		for j, v := range c.Values {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				v := v
				vals[j] = &v
			}
		}
		data[i] = ColumnData{Name: c.Name, Values: vals}
	}

	writeJSON(w, http.StatusOK, ViewerData{ViewerSummary: summarize(e), Data: data})
}

func (s *Server) handleCloseViewer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.viewerFromPath(w, r)
	if !ok {
		return
	}
	if !s.viewers.Close(id) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found", Message: "Viewer not found", Code: "VIEW001"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
