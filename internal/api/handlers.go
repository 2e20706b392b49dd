package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"gwi.com/answer-bubbles/internal/core"
)

type APIHandler struct {
	pipeline *core.QueryPipeline
}

func NewAPIHandler(p *core.QueryPipeline) *APIHandler {
	return &APIHandler{pipeline: p}
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Segments []string    `json:"segments"`
	Turns    []core.Turn `json:"turns"`
}

type ErrorResponse struct {
	Error string      `json:"error"`
	Turns []core.Turn `json:"turns,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *APIHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	before := h.pipeline.Conversation().Len()
	out := h.pipeline.Submit(r.Context(), req.Question)
	switch {
	case out.Err == nil:
		writeJSON(w, http.StatusOK, AskResponse{
			Segments: out.Segments,
			Turns:    h.pipeline.Conversation().Since(before),
		})
	case errors.Is(out.Err, core.ErrEmptyQuestion):
		http.Error(w, "Question cannot be empty", http.StatusBadRequest)
	case errors.Is(out.Err, core.ErrQueryInFlight):
		http.Error(w, "A question is already being answered", http.StatusConflict)
	default:
		// The cause is already logged by the pipeline.
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error: h.pipeline.FailureMessage(),
			Turns: h.pipeline.Conversation().Since(before),
		})
	}
}

func (h *APIHandler) ListHistoryHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pipeline.History().Snapshot())
}

func (h *APIHandler) ClearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.History().Clear(r.Context()); err != nil {
		log.Error().Err(err).Msg("Error clearing history")
		http.Error(w, "Failed to clear history", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) ConversationHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pipeline.Conversation().All())
}

func (h *APIHandler) ResetConversationHandler(w http.ResponseWriter, r *http.Request) {
	h.pipeline.Conversation().Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]core.QueryState{"state": h.pipeline.State()})
}
