package http

import "net/http"

func (s *Server) handleListBarangayCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.storage.ListBarangayCounts(r.Context())
	if err != nil {
		respondError(r, w, err)
		return
	}

	out := make([]barangayCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, newBarangayCountResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAdjustBarangayCount(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	count, err := s.storage.AdjustBarangayCount(r.Context(), req.toLocation(), req.Delta)
	if err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, newBarangayCountResponse(count))
}
