package httpapi

import (
	"net/http"
	"time"

	appEvent "github.com/slotswap/slotswap/internal/application/event"
	"github.com/slotswap/slotswap/internal/domain/slot"
)

type eventCreateRequest struct {
	Title   string    `json:"title"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

type eventUpdateRequest struct {
	Title   *string      `json:"title,omitempty"`
	StartAt *time.Time   `json:"startAt,omitempty"`
	EndAt   *time.Time   `json:"endAt,omitempty"`
	Status  *slot.Status `json:"status,omitempty"`
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	var req eventCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	sl, err := s.eventSvc.Create(r.Context(), u.UserID, req.Title, req.StartAt, req.EndAt)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sl)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 100, 200)
	slots, err := s.eventSvc.ListMine(r.Context(), u.UserID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"events": slots})
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "slotId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid slotId")
		return
	}
	sl, err := s.eventSvc.Get(r.Context(), u.UserID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sl)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "slotId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid slotId")
		return
	}
	var req eventUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	sl, err := s.eventSvc.UpdateSlot(r.Context(), u.UserID, id, appEvent.Update{
		Title:   req.Title,
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		Status:  req.Status,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sl)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "slotId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid slotId")
		return
	}
	if err := s.eventSvc.Delete(r.Context(), u.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"slotId": id, "deleted": true})
}
