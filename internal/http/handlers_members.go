package http

import (
	"net/http"

	"bafci/internal/core"
)

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	member, err := req.toMember()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.members.Register(r.Context(), member)
	if err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newMemberResponse(created))
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	status := core.MemberStatus(r.URL.Query().Get("status"))
	branch := r.URL.Query().Get("branch")

	members, err := s.members.List(r.Context(), status)
	if err != nil {
		respondError(r, w, err)
		return
	}

	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		if branch != "" && m.Branch != branch {
			continue
		}
		out = append(out, newMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	member, err := s.members.Get(r.Context(), id)
	if err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMemberResponse(member))
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req memberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	member, err := req.toMember()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	member.ID = id

	// Carry over the fields the update body does not own.
	existing, err := s.members.Get(r.Context(), id)
	if err != nil {
		respondError(r, w, err)
		return
	}
	member.MembershipFeePaid = existing.MembershipFeePaid
	member.MembershipFeeAmount = existing.MembershipFeeAmount
	member.MembershipFeePaidDate = existing.MembershipFeePaidDate
	if member.Status == "" {
		member.Status = existing.Status
	}

	updated, err := s.members.Update(r.Context(), member)
	if err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMemberResponse(updated))
}

func (s *Server) handleChangeMemberStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	member, err := s.members.ChangeStatus(r.Context(), id, core.MemberStatus(req.Status))
	if err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMemberResponse(member))
}

func (s *Server) handleRecordMembershipFee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req membershipFeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "amount: "+err.Error())
		return
	}
	paidDate, err := parseDateField(req.PaidDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	member, err := s.members.RecordMembershipFee(r.Context(), id, core.Money{Cents: cents}, paidDate)
	if err != nil {
		respondError(r, w, err)
		return
	}

	s.summaries.Purge()
	writeJSON(w, http.StatusOK, newMemberResponse(member))
}

func (s *Server) handleMemberSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sched, err := s.payments.ScheduleFor(r.Context(), id, timeNow())
	if err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, newScheduleResponse(sched))
}
