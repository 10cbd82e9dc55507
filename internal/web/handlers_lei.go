package web

import (
	"net/http"
	"strings"
)

// handleLEISearch proxies LEI lookups to the GLEIF registry, serving
// repeated queries from cache.
func (s *Server) handleLEISearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeErrorCode(w, http.StatusBadRequest, "BAD_REQUEST",
			"Query parameter q is required", "Supply an entity name or LEI fragment")
		return
	}

	entities, err := s.leiClient.Search(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, entities)
}
