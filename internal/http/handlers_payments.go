package http

import (
	"net/http"

	"bafci/internal/core"
	"bafci/internal/services"
)

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "amount: "+err.Error())
		return
	}
	date, err := parseDateField(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	payment, err := s.payments.RecordPayment(r.Context(), services.PaymentRequest{
		MemberID:        req.MemberID,
		Amount:          core.Money{Cents: cents},
		Date:            date,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		FieldWorkerID:   req.FieldWorkerID,
	})
	if err != nil {
		respondError(r, w, err)
		return
	}

	s.summaries.Purge()
	writeJSON(w, http.StatusCreated, newPaymentResponse(payment))
}

func (s *Server) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "memberID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := s.payments.History(r.Context(), memberID)
	if err != nil {
		respondError(r, w, err)
		return
	}

	out := make([]paymentResponse, 0, len(history))
	for _, p := range history {
		out = append(out, newPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}
