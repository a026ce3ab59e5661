package httpapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/slotswap/slotswap/internal/domain/swap"
)

type swapProposeRequest struct {
	MySlotID     uuid.UUID `json:"mySlotId"`
	TargetSlotID uuid.UUID `json:"targetSlotId"`
}

type swapRespondRequest struct {
	Decision string `json:"decision"`
}

type markReadRequest struct {
	RequestIDs []uuid.UUID `json:"requestIds"`
}

func (s *Server) listSwappableSlots(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 100, 200)
	slots, err := s.negotiationSvc.ListSwappableSlots(r.Context(), u.UserID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"slots": slots})
}

func (s *Server) proposeSwap(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	var req swapProposeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.MySlotID == uuid.Nil || req.TargetSlotID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "mySlotId and targetSlotId are required")
		return
	}
	created, err := s.negotiationSvc.ProposeSwap(r.Context(), u.UserID, req.MySlotID, req.TargetSlotID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) listIncoming(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 100, 200)
	requests, err := s.negotiationSvc.ListIncoming(r.Context(), u.UserID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

func (s *Server) listOutgoing(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 100, 200)
	requests, err := s.negotiationSvc.ListOutgoing(r.Context(), u.UserID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

func (s *Server) respondToSwap(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "requestId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid requestId")
		return
	}
	var req swapRespondRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	decision := swap.Decision(strings.ToUpper(req.Decision))
	resolved, err := s.negotiationSvc.RespondToSwap(r.Context(), u.UserID, id, decision)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resolved)
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	var req markReadRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if err := s.negotiationSvc.AcknowledgeRead(r.Context(), u.UserID, req.RequestIDs); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"acknowledged": len(req.RequestIDs)})
}
