package http

import (
	"fmt"
	"net/http"
)

func (s *Server) handleListLedgerEntries(w http.ResponseWriter, r *http.Request) {
	window, _, err := parseWindow(r.URL.Query(), timeNow())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.revenue.Entries(r.Context(), window)
	if err != nil {
		respondError(r, w, err)
		return
	}

	out := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newLedgerEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateLedgerEntry(w http.ResponseWriter, r *http.Request) {
	var req ledgerEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	entry, err := req.toEntry()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.revenue.AddEntry(r.Context(), entry)
	if err != nil {
		respondError(r, w, err)
		return
	}

	s.summaries.Purge()
	writeJSON(w, http.StatusCreated, newLedgerEntryResponse(created))
}

func (s *Server) handleRevenueSummary(w http.ResponseWriter, r *http.Request) {
	current, previous, err := parseWindow(r.URL.Query(), timeNow())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("%s..%s", fmtDate(current.Start), fmtDate(current.End))
	if cached, ok := s.summaries.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	report, err := s.revenue.Report(r.Context(), current, previous)
	if err != nil {
		respondError(r, w, err)
		return
	}

	resp := newSummaryResponse(report)
	s.summaries.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}
