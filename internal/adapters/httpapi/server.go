package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bnema/llm-council/internal/application"
	"github.com/bnema/llm-council/internal/domain"
)

const defaultMaxBodyBytes = 16 << 20

type Sessions interface {
	Start(ctx context.Context, cfg domain.SessionConfig) (domain.SessionID, <-chan application.Event, error)
	Resume(ctx context.Context, cfg domain.SessionConfig, snapshot domain.ResumeState) (domain.SessionID, <-chan application.Event, error)
	Pause(ctx context.Context, id domain.SessionID) error
	Cancel(ctx context.Context, id domain.SessionID) error
	Get(ctx context.Context, id domain.SessionID) (domain.SessionState, error)
	List(ctx context.Context) ([]domain.SessionState, error)
}

type Providers interface {
	ListProviders(ctx context.Context) ([]application.ProviderInfo, error)
	SetAPIKey(ctx context.Context, provider domain.Provider, apiKey string) error
	RemoveAPIKey(ctx context.Context, provider domain.Provider) error
}

type Templates interface {
	ListTemplates(ctx context.Context) ([]domain.CouncilTemplate, error)
	GetTemplate(ctx context.Context, id domain.TemplateID) (domain.CouncilTemplate, error)
	CreateTemplate(ctx context.Context, input application.TemplateInput) (domain.CouncilTemplate, error)
	UpdateTemplate(ctx context.Context, id domain.TemplateID, input application.TemplateInput) (domain.CouncilTemplate, error)
	DeleteTemplate(ctx context.Context, id domain.TemplateID) error
}

type Archetypes interface {
	List() []domain.Archetype
	Get(id string) (domain.Archetype, bool)
}

type FileIngestor interface {
	Ingest(filename string, contentType string, data []byte) (domain.Attachment, error)
}

type Server struct {
	sessions     Sessions
	providers    Providers
	templates    Templates
	archetypes   Archetypes
	files        FileIngestor
	logger       *slog.Logger
	clock        func() time.Time
	maxBodyBytes int64
	version      string
	startTime    time.Time
}

type Option func(*Server)

func WithProviders(p Providers) Option {
	return func(s *Server) {
		if p != nil {
			s.providers = p
		}
	}
}

func WithTemplates(t Templates) Option {
	return func(s *Server) {
		if t != nil {
			s.templates = t
		}
	}
}

func WithArchetypes(a Archetypes) Option {
	return func(s *Server) {
		if a != nil {
			s.archetypes = a
		}
	}
}

func WithFileIngestor(f FileIngestor) Option {
	return func(s *Server) {
		if f != nil {
			s.files = f
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

func NewServer(sessions Sessions, opts ...Option) *Server {
	s := &Server{
		sessions:     sessions,
		archetypes:   application.NewArchetypeCatalog(),
		logger:       slog.New(slog.DiscardHandler),
		clock:        func() time.Time { return time.Now().UTC() },
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.startTime = s.clock()
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/session/create", s.handleCreateSession)
	mux.HandleFunc("POST /api/session/resume", s.handleResumeSession)
	mux.HandleFunc("POST /api/session/{id}/pause", s.handlePauseSession)
	mux.HandleFunc("DELETE /api/session/{id}", s.handleCancelSession)
	mux.HandleFunc("GET /api/session/{id}", s.handleGetSession)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)

	mux.HandleFunc("GET /api/providers", s.handleListProviders)
	mux.HandleFunc("GET /api/providers/{name}/models", s.handleProviderModels)
	mux.HandleFunc("POST /api/config/api-key", s.handleSetAPIKey)
	mux.HandleFunc("DELETE /api/config/api-key/{provider}", s.handleRemoveAPIKey)

	mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	mux.HandleFunc("POST /api/templates", s.handleCreateTemplate)
	mux.HandleFunc("GET /api/templates/{id}", s.handleGetTemplate)
	mux.HandleFunc("PUT /api/templates/{id}", s.handleUpdateTemplate)
	mux.HandleFunc("DELETE /api/templates/{id}", s.handleDeleteTemplate)

	mux.HandleFunc("GET /api/archetypes", s.handleListArchetypes)
	mux.HandleFunc("GET /api/archetypes/{id}", s.handleGetArchetype)

	mux.HandleFunc("POST /api/files/upload", s.handleUploadFile)

	return s.logRequests(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       s.version,
		UptimeSeconds: int64(s.clock().Sub(s.startTime).Seconds()),
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := s.clock()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", s.clock().Sub(started),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
