package web

// errors.go provides unified error responses for the API.
//
// Technical errors are logged with the request id; clients receive the
// user-facing message, suggested action and support code.

import (
	"net/http"

	"github.com/JonMunkholm/tsimport/internal/importer"
	"github.com/JonMunkholm/tsimport/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the mapped user message.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := importer.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	writeJSON(w, statusCode, ErrorResponse{
		Error:   userMsg.Detail,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// respondBadRequest writes a 400 with a plain message for malformed input.
func respondBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	logging.FromContext(r.Context()).Warn("bad request", "path", r.URL.Path, "reason", msg)
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "bad request",
		Message: msg,
		Code:    "REQ001",
	})
}
