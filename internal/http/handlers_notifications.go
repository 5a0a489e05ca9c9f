package http

import (
	"net/http"
	"strconv"
)

const defaultNotificationLimit = 50

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	unreadOnly := query.Get("unread") == "true"

	limit := defaultNotificationLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	notifications, err := s.storage.ListNotifications(r.Context(), unreadOnly, limit)
	if err != nil {
		respondError(r, w, err)
		return
	}

	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, newNotificationResponse(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.storage.CountUnreadNotifications(r.Context())
	if err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.storage.MarkNotificationRead(r.Context(), id); err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	marked, err := s.storage.MarkAllNotificationsRead(r.Context())
	if err != nil {
		respondError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"marked": marked})
}
