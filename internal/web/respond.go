package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/meridiangrc/roi/internal/roi"
)

// envelope is the uniform success wrapper.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorBody is the uniform error wrapper.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// writeData writes a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

// writeError maps a service error to its HTTP status and user message.
// The raw error is logged server-side; clients only see the sanitized
// message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	msg := roi.MapError(err)
	status := statusForCode(msg.Code)

	slog.ErrorContext(r.Context(), "request failed",
		"status", status, "code", msg.Code, "error", err)

	writeErrorCode(w, status, msg.Code, msg.Message, msg.Action)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message, action string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := errorBody{Error: errorDetail{Code: code, Message: message, Action: action}}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

func statusForCode(code string) int {
	switch code {
	case roi.CodeUnauthorized:
		return http.StatusUnauthorized
	case roi.CodeNotFound, roi.CodeNoTable, roi.CodeNoRecords:
		return http.StatusNotFound
	case roi.CodeInvalidColumn, roi.CodeReadOnly, roi.CodeNoOrg:
		return http.StatusBadRequest
	case roi.CodeInsertFailed, roi.CodeUpdateFailed, roi.CodeDeleteFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a request body into dst with unknown fields
// rejected.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
