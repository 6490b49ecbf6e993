package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mtlprog/earth/internal/feedback"
	"github.com/mtlprog/earth/internal/session"
	"github.com/samber/lo"
)

// CacheSnapshot handles GET /api/v1/cache.
//
//	@Summary		Inspect the query cache
//	@Tags			cache
//	@Produce		json
//	@Success		200	{array}	query.Summary
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/cache [get]
func (h *Handler) CacheSnapshot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.countries.Snapshot())
}

// InvalidateCache handles DELETE /api/v1/cache/{key}.
//
//	@Summary	Invalidate a cache entry
//	@Tags		cache
//	@Param		key	path	string	true	"Cache key, e.g. countries or country:france"
//	@Success	204
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router		/api/v1/cache/{key} [delete]
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	h.countries.Invalidate(key)
	slog.Info("api: cache entry invalidated", "key", key)
	w.WriteHeader(http.StatusNoContent)
}

// Login handles POST /api/v1/login.
//
//	@Summary		Log in
//	@Description	Checks mock credentials and returns the user with a signed session token
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	session.Session
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/api/v1/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	gate := session.NewGate(h.auth)
	s, err := gate.Login(r.Context(), session.Credentials{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	h.metrics.Login(err)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

// SubmitFeedback handles POST /api/v1/feedback.
//
//	@Summary		Submit feedback
//	@Tags			feedback
//	@Accept			json
//	@Produce		json
//	@Param			body	body		FeedbackRequest	true	"Feedback form"
//	@Success		202		{object}	FeedbackResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/feedback [post]
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	c := feedback.NewController(h.sender, feedback.WithMetrics(h.metrics))
	ack, err := c.Submit(r.Context(), feedback.Form{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, FeedbackResponse{ClearFields: ack.ClearFields})
}

// ListFeedback handles GET /api/v1/feedback.
//
//	@Summary		List stored feedback
//	@Description	Available only when feedback is persisted to a database
//	@Tags			feedback
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum entries"	default(20)	maximum(100)
//	@Success		200		{array}		FeedbackEntryResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/feedback [get]
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	if h.feedbackLog == nil {
		h.writeError(w, http.StatusNotFound, "feedback storage is not configured")
		return
	}

	entries, err := h.feedbackLog.Recent(r.Context(), parseIntParam(r, "limit", 20, 100))
	if err != nil {
		slog.Error("api: failed to list feedback", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list feedback")
		return
	}

	h.writeJSON(w, http.StatusOK, lo.Map(entries, func(e feedback.Entry, _ int) FeedbackEntryResponse {
		return FeedbackEntryResponse{
			ID:        e.ID,
			Name:      e.Name,
			Email:     e.Email,
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		}
	}))
}
