package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridiangrc/roi/internal/incident"
	"github.com/meridiangrc/roi/internal/logging"
	"github.com/meridiangrc/roi/internal/roi"
)

// handleIncidentReport renders the narrative submission report for an
// incident as plain text.
func (s *Server) handleIncidentReport(w http.ResponseWriter, r *http.Request) {
	orgID, err := roi.OrgIDFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	incidentID, err := uuid.Parse(chi.URLParam(r, "incidentID"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			"Incident ID is not a valid UUID", "Check the incident identifier")
		return
	}

	agg, err := s.incidents.Fetch(r.Context(), orgID, incidentID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report := incident.RenderReport(agg)

	logging.FromContext(r.Context()).Info("incident report rendered",
		"incident", incidentID, "reference", agg.Incident.Reference)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename="incident_`+agg.Incident.Reference+`.txt"`)
	w.WriteHeader(http.StatusOK)
	w.Write(report)
}
