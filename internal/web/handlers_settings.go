package web

import (
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/tsimport/internal/logging"
	"github.com/JonMunkholm/tsimport/internal/settings"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Params())
}

// handlePutSettings replaces the default parameters. Fields left out of the
// body fall back to the built-in defaults.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	p := settings.Defaults()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		respondBadRequest(w, r, "invalid JSON: "+err.Error())
		return
	}
	if err := p.Validate(); err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	s.paramsMu.Lock()
	defer s.paramsMu.Unlock()

	if err := s.store.Save(r.Context(), p); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.params = p

	logging.FromContext(r.Context()).Info("default parameters updated", "values", p.ToMap())
	writeJSON(w, http.StatusOK, p)
}
