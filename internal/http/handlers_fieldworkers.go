package http

import (
	"net/http"

	"bafci/internal/core"
)

func (s *Server) handleListFieldWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := s.storage.ListFieldWorkers(r.Context())
	if err != nil {
		respondError(r, w, err)
		return
	}

	out := make([]fieldWorkerResponse, 0, len(workers))
	for _, fw := range workers {
		out = append(out, newFieldWorkerResponse(fw))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateFieldWorker(w http.ResponseWriter, r *http.Request) {
	var req fieldWorkerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	worker := core.FieldWorker{Name: req.Name, Age: req.Age, Branch: req.Branch}
	if err := worker.Validate(); err != nil {
		respondError(r, w, err)
		return
	}

	created, err := s.storage.CreateFieldWorker(r.Context(), worker)
	if err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newFieldWorkerResponse(created))
}

func (s *Server) handleGetFieldWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	worker, err := s.storage.GetFieldWorker(r.Context(), id)
	if err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, newFieldWorkerResponse(worker))
}

// handleAddCollection credits a collected amount to the worker's running
// total outside the payment flow, covering door-to-door collections recorded
// after the fact.
func (s *Server) handleAddCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req collectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "amount: "+err.Error())
		return
	}

	if err := s.storage.AddFieldWorkerCollection(r.Context(), id, core.Money{Cents: cents}); err != nil {
		respondError(r, w, err)
		return
	}

	worker, err := s.storage.GetFieldWorker(r.Context(), id)
	if err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, newFieldWorkerResponse(worker))
}
