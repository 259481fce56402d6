package httpapi

import (
	"errors"
	"net/http"

	"github.com/bnema/llm-council/internal/domain"
)

var errTemplatesUnavailable = errors.New("council templates are not configured")

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.writeError(w, r, errTemplatesUnavailable)
		return
	}

	templates, err := s.templates.ListTemplates(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	payload := make([]templatePayload, 0, len(templates))
	for _, template := range templates {
		payload = append(payload, fromTemplate(template))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.writeError(w, r, errTemplatesUnavailable)
		return
	}

	var req templateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	template, err := s.templates.CreateTemplate(r.Context(), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fromTemplate(template))
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.writeError(w, r, errTemplatesUnavailable)
		return
	}

	template, err := s.templates.GetTemplate(r.Context(), domain.TemplateID(r.PathValue("id")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fromTemplate(template))
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.writeError(w, r, errTemplatesUnavailable)
		return
	}

	var req templateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	template, err := s.templates.UpdateTemplate(r.Context(), domain.TemplateID(r.PathValue("id")), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fromTemplate(template))
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.writeError(w, r, errTemplatesUnavailable)
		return
	}

	if err := s.templates.DeleteTemplate(r.Context(), domain.TemplateID(r.PathValue("id"))); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Template deleted successfully"})
}
