package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bnema/llm-council/internal/domain"
)

const maxUploadMemory = 1 << 20

var errProvidersUnavailable = errors.New("provider catalog is not configured")

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	if s.providers == nil {
		s.writeError(w, r, errProvidersUnavailable)
		return
	}

	infos, err := s.providers.ListProviders(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	payload := make([]providerPayload, 0, len(infos))
	for _, info := range infos {
		payload = append(payload, fromProvider(info))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleProviderModels(w http.ResponseWriter, r *http.Request) {
	if s.providers == nil {
		s.writeError(w, r, errProvidersUnavailable)
		return
	}

	name := r.PathValue("name")
	infos, err := s.providers.ListProviders(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, info := range infos {
		if string(info.Name) != name {
			continue
		}
		payload := fromProvider(info)
		writeJSON(w, http.StatusOK, providerModelsPayload{
			Provider:        payload.Name,
			DefaultModel:    payload.DefaultModel,
			AvailableModels: payload.AvailableModels,
		})
		return
	}
	s.writeError(w, r, fmt.Errorf("%w: %q", domain.ErrProviderNotFound, name))
}

func (s *Server) handleSetAPIKey(w http.ResponseWriter, r *http.Request) {
	if s.providers == nil {
		s.writeError(w, r, errProvidersUnavailable)
		return
	}

	var req apiKeyRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	provider, err := domain.ParseProvider(req.Provider)
	if err != nil {
		s.writeError(w, r, &requestError{Field: "provider", Reason: err.Error()})
		return
	}
	if !provider.RequiresAPIKey() {
		s.writeError(w, r, &requestError{Field: "provider", Reason: fmt.Sprintf("%s does not use an api key", provider)})
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		s.writeError(w, r, &requestError{Field: "api_key", Reason: "required"})
		return
	}
	if err := s.providers.SetAPIKey(r.Context(), provider, req.APIKey); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apiKeyResponse{
		Success:    true,
		Message:    fmt.Sprintf("API key for %s has been saved.", provider),
		Provider:   string(provider),
		Configured: true,
	})
}

func (s *Server) handleRemoveAPIKey(w http.ResponseWriter, r *http.Request) {
	if s.providers == nil {
		s.writeError(w, r, errProvidersUnavailable)
		return
	}

	provider, err := domain.ParseProvider(r.PathValue("provider"))
	if err != nil {
		s.writeError(w, r, &requestError{Field: "provider", Reason: err.Error()})
		return
	}
	if err := s.providers.RemoveAPIKey(r.Context(), provider); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apiKeyResponse{
		Success:  true,
		Message:  fmt.Sprintf("API key for %s has been removed.", provider),
		Provider: string(provider),
	})
}

func (s *Server) handleListArchetypes(w http.ResponseWriter, r *http.Request) {
	archetypes := s.archetypes.List()
	payload := make([]archetypePayload, 0, len(archetypes))
	for _, archetype := range archetypes {
		payload = append(payload, fromArchetype(archetype))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleGetArchetype(w http.ResponseWriter, r *http.Request) {
	archetype, ok := s.archetypes.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("archetype %q not found", r.PathValue("id"))})
		return
	}
	writeJSON(w, http.StatusOK, fromArchetype(archetype))
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	if s.files == nil {
		s.writeError(w, r, errors.New("file ingestion is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, &requestError{Field: "file", Reason: err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, &requestError{Field: "file", Reason: "multipart field \"file\" is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	attachment, err := s.files.Ingest(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, filePayload{
		Filename:      attachment.Filename,
		ContentType:   attachment.ContentType,
		Size:          attachment.Size,
		ExtractedText: attachment.ExtractedText,
		Base64Data:    attachment.Base64Data,
	})
}
