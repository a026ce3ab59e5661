package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appAuth "github.com/slotswap/slotswap/internal/application/auth"
	appEvent "github.com/slotswap/slotswap/internal/application/event"
	appNegotiation "github.com/slotswap/slotswap/internal/application/negotiation"
	"github.com/slotswap/slotswap/internal/domain/slot"
	"github.com/slotswap/slotswap/internal/domain/swap"
	"github.com/slotswap/slotswap/internal/domain/user"
	"github.com/slotswap/slotswap/internal/infrastructure/bus"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authSvc        *appAuth.Service
	eventSvc       *appEvent.Service
	negotiationSvc *appNegotiation.Service
	hub            *bus.Hub
	logger         zerolog.Logger
}

func NewServer(
	authSvc *appAuth.Service,
	eventSvc *appEvent.Service,
	negotiationSvc *appNegotiation.Service,
	hub *bus.Hub,
	logger zerolog.Logger,
) *Server {
	return &Server{
		authSvc:        authSvc,
		eventSvc:       eventSvc,
		negotiationSvc: negotiationSvc,
		hub:            hub,
		logger:         logger.With().Str("component", "http").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.healthz)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/me", s.me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/events", func(r chi.Router) {
				r.Post("/", s.createEvent)
				r.Get("/", s.listEvents)
				r.Get("/{slotId}", s.getEvent)
				r.Patch("/{slotId}", s.updateEvent)
				r.Delete("/{slotId}", s.deleteEvent)
			})

			r.Route("/swaps", func(r chi.Router) {
				r.Get("/swappable-slots", s.listSwappableSlots)
				r.Post("/swap-request", s.proposeSwap)
				r.Get("/incoming", s.listIncoming)
				r.Get("/outgoing", s.listOutgoing)
				r.Post("/swap-response/{requestId}", s.respondToSwap)
				r.Post("/mark-read", s.markRead)
			})
		})

		// WebSocket authenticates via query token, before the upgrade.
		r.Get("/swaps/ws", s.wsEndpoint)
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"connections": s.hub.ClientCount(),
	})
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

// respondServiceError maps domain sentinel errors to HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, slot.ErrNotFound), errors.Is(err, swap.ErrNotFound), errors.Is(err, user.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, slot.ErrNotOwner), errors.Is(err, appNegotiation.ErrNotResponder):
		respondError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, appAuth.ErrInvalidCredentials), errors.Is(err, appAuth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, swap.ErrAlreadyResolved),
		errors.Is(err, appNegotiation.ErrConflict),
		errors.Is(err, slot.ErrVersionConflict),
		errors.Is(err, swap.ErrVersionConflict),
		errors.Is(err, user.ErrEmailTaken):
		respondError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, appNegotiation.ErrSelfSwap),
		errors.Is(err, slot.ErrNotSwappable),
		errors.Is(err, slot.ErrSwapLocked),
		errors.Is(err, slot.ErrInvalidRange),
		errors.Is(err, slot.ErrInvalidStatus),
		errors.Is(err, slot.ErrTitleRequired),
		errors.Is(err, swap.ErrInvalidDecision),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrPasswordTooShort),
		errors.Is(err, user.ErrDisplayNameRequired):
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	return uuid.Parse(val)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
