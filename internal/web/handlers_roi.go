package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridiangrc/roi/internal/logging"
	"github.com/meridiangrc/roi/internal/roi"
)

// templateIDParam extracts and normalizes the template ID path
// parameter, so /api/roi/b_01_01 and /api/roi/B_01.01 address the
// same template.
func templateIDParam(r *http.Request) string {
	return roi.NormalizeTemplateID(chi.URLParam(r, "templateID"))
}

// handleListTemplates returns the catalog of registered templates.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.service.ListTemplates())
}

// fetchResponse pairs the shaped rows with their validation outcome,
// so one GET drives both grid rendering and issue badges.
type fetchResponse struct {
	roi.FetchResult
	Validation roi.ValidationResult `json:"validation"`
}

// handleFetchTemplate returns the mapped rows of a template for the
// caller's organization, together with the validation result for the
// current data.
func (s *Server) handleFetchTemplate(w http.ResponseWriter, r *http.Request) {
	orgID, err := roi.OrgIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	templateID := templateIDParam(r)

	res, err := s.service.FetchTemplateData(r.Context(), orgID, templateID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	validation, err := roi.ValidateTemplate(templateID, res.Rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, fetchResponse{FetchResult: res, Validation: validation})
}

// handleValidateTemplate fetches and validates a template's rows.
func (s *Server) handleValidateTemplate(w http.ResponseWriter, r *http.Request) {
	orgID, err := roi.OrgIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	templateID := templateIDParam(r)

	res, err := s.service.FetchTemplateData(r.Context(), orgID, templateID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := roi.ValidateTemplate(templateID, res.Rows)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("template validated",
		"template", templateID, "rows", res.Count,
		"errors", result.ErrorCount, "warnings", result.WarningCount)
	writeData(w, http.StatusOK, result)
}

// createRequest is the POST body for record creation. For the ICT
// services template the optional arrangement block drives vendor and
// contract creation in the same call.
type createRequest struct {
	Record      map[string]string       `json:"record"`
	Arrangement *roi.ArrangementOptions `json:"arrangement,omitempty"`
}

// handleCreateRecord creates a record for a template. ICT service
// records may create their vendor and contract rows in one request.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	orgID, err := roi.OrgIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	templateID := templateIDParam(r)

	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			"Request body is not valid JSON", "Check the request payload")
		return
	}
	if len(req.Record) == 0 {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			"Record must contain at least one column", "Supply template column values")
		return
	}

	if templateID == roi.ArrangementTemplateID && req.Arrangement != nil {
		result, err := s.service.CreateArrangement(r.Context(), orgID, req.Record, *req.Arrangement)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusCreated, result)
		return
	}

	result, err := s.service.Create(r.Context(), orgID, templateID, req.Record)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, result)
}

// updateRequest is the PATCH body for single-cell updates. Rows are
// addressed by record ID; rowIndex remains for older clients and is
// resolved against the current ordered fetch.
type updateRequest struct {
	RecordID string `json:"recordId,omitempty"`
	RowIndex *int   `json:"rowIndex,omitempty"`
	Column   string `json:"column"`
	Value    string `json:"value"`
}

func (s *Server) handleUpdateCell(w http.ResponseWriter, r *http.Request) {
	orgID, err := roi.OrgIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			"Request body is not valid JSON", "Check the request payload")
		return
	}
	if req.Column == "" {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			"column is required", "Supply the template column code")
		return
	}

	addr := roi.CellAddr{RowIndex: -1}
	if req.RecordID != "" {
		id, err := uuid.Parse(req.RecordID)
		if err != nil {
			writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
				"recordId is not a valid UUID", "Check the record identifier")
			return
		}
		addr.RecordID = id
	}
	if req.RowIndex != nil {
		addr.RowIndex = *req.RowIndex
	}
	if addr.RecordID == uuid.Nil && addr.RowIndex < 0 {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			"recordId or rowIndex is required", "Address the row to update")
		return
	}

	targetID, err := s.service.UpdateCell(r.Context(), orgID, templateIDParam(r), addr, req.Column, req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"recordId": targetID.String()})
}

// deleteRequest is the DELETE body. Record IDs and row indices may be
// mixed; duplicates collapse to one delete.
type deleteRequest struct {
	RecordIDs  []string `json:"recordIds,omitempty"`
	RowIndices []int    `json:"rowIndices,omitempty"`
}

func (s *Server) handleDeleteRecords(w http.ResponseWriter, r *http.Request) {
	orgID, err := roi.OrgIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req deleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			"Request body is not valid JSON", "Check the request payload")
		return
	}
	if len(req.RecordIDs) == 0 && len(req.RowIndices) == 0 {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			"recordIds or rowIndices is required", "Address the rows to delete")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.RecordIDs))
	for _, raw := range req.RecordIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
				fmt.Sprintf("recordId %q is not a valid UUID", raw), "Check the record identifiers")
			return
		}
		ids = append(ids, id)
	}

	deleted, err := s.service.SoftDelete(r.Context(), orgID, templateIDParam(r), ids, req.RowIndices)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// handleExportTemplate streams a template as CSV or XLSX. Row and
// column counts ride response headers so clients can report progress
// without parsing the artifact.
func (s *Server) handleExportTemplate(w http.ResponseWriter, r *http.Request) {
	orgID, err := roi.OrgIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	templateID := templateIDParam(r)

	res, err := s.service.FetchTemplateData(r.Context(), orgID, templateID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	var artifact roi.Artifact
	switch format {
	case "", "csv":
		artifact, err = roi.GenerateCSV(templateID, res)
	case "xlsx":
		artifact, err = roi.GenerateXLSX(templateID, res)
	default:
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			fmt.Sprintf("unsupported export format %q", format), "Use csv or xlsx")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("template exported",
		"template", templateID, "format", format, "rows", artifact.RowCount)

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	w.Header().Set("X-Row-Count", strconv.Itoa(artifact.RowCount))
	w.Header().Set("X-Column-Count", strconv.Itoa(artifact.ColumnCount))
	w.WriteHeader(http.StatusOK)
	w.Write(artifact.Data)
}
