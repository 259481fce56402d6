package httpapi

import (
	"context"
	"net/http"

	"github.com/bnema/llm-council/internal/adapters/sse"
	"github.com/bnema/llm-council/internal/application"
	"github.com/bnema/llm-council/internal/domain"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.serveStream(w, r, func(ctx context.Context) (domain.SessionID, <-chan application.Event, error) {
		return s.sessions.Start(ctx, req.config())
	})
}

func (s *Server) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ResumeState == nil {
		s.writeError(w, r, &requestError{Field: "resume_state", Reason: "required"})
		return
	}

	s.serveStream(w, r, func(ctx context.Context) (domain.SessionID, <-chan application.Event, error) {
		return s.sessions.Resume(ctx, req.config(), req.resumeState())
	})
}

// serveStream starts a session bound to the request and relays its events.
// Errors before the first event are returned as JSON, everything after that
// travels inside the stream.
func (s *Server) serveStream(w http.ResponseWriter, r *http.Request, start func(context.Context) (domain.SessionID, <-chan application.Event, error)) {
	if _, ok := w.(http.Flusher); !ok {
		s.writeError(w, r, sse.ErrStreamingUnsupported)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	id, events, err := start(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writer, err := sse.NewWriter(w)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	logger := s.logger.With("session_id", id)
	if err := sse.Stream(ctx, writer, events); err != nil {
		logger.Info("session stream closed by client", "error", err)
		return
	}
	logger.Debug("session stream finished")
}

func (s *Server) handlePauseSession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(r.PathValue("id"))
	if err := s.sessions.Pause(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{SessionID: string(id), Status: string(domain.StatusPaused)})
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(r.PathValue("id"))
	if err := s.sessions.Cancel(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{SessionID: string(id), Status: "cancelled"})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessions.Get(r.Context(), domain.SessionID(r.PathValue("id")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fromState(state))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	states, err := s.sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summaries := make([]sessionSummaryPayload, 0, len(states))
	for _, state := range states {
		summaries = append(summaries, fromSummary(state))
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": summaries, "total": len(summaries)})
}
