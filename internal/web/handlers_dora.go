package web

import (
	"net/http"

	"github.com/meridiangrc/roi/internal/dora"
	"github.com/meridiangrc/roi/internal/logging"
)

// coverageRequest carries the controls extracted from a SOC 2 report.
type coverageRequest struct {
	Controls []dora.Control `json:"controls" validate:"required,dive"`
}

// coverageResponse bundles the article mappings, the weighted score
// and the remediation gaps in one payload.
type coverageResponse struct {
	Mappings []dora.Mapping `json:"mappings"`
	Coverage dora.Coverage  `json:"coverage"`
	Gaps     []dora.Gap     `json:"gaps"`
}

// handleDoraCoverage maps SOC 2 controls onto DORA articles and scores
// overall coverage. The computation is deterministic, so the endpoint
// is safe to retry.
func (s *Server) handleDoraCoverage(w http.ResponseWriter, r *http.Request) {
	var req coverageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			"Request body is not valid JSON", "Check the request payload")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			"Controls payload failed validation: "+err.Error(),
			"Each control needs controlId and tscCategory")
		return
	}

	mappings := dora.MapControls(req.Controls)
	coverage := dora.CalculateCoverage(mappings)
	gaps := dora.Gaps(coverage)

	logging.FromContext(r.Context()).Info("dora coverage calculated",
		"controls", len(req.Controls), "score", coverage.OverallScore,
		"gaps", len(gaps))

	writeData(w, http.StatusOK, coverageResponse{
		Mappings: mappings,
		Coverage: coverage,
		Gaps:     gaps,
	})
}
