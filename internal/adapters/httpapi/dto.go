package httpapi

import (
	"time"

	"github.com/bnema/llm-council/internal/application"
	"github.com/bnema/llm-council/internal/domain"
)

type memberPayload struct {
	ID                string `json:"id"`
	Provider          string `json:"provider"`
	Model             string `json:"model"`
	Role              string `json:"role"`
	Archetype         string `json:"archetype,omitempty"`
	CustomPersonality string `json:"custom_personality,omitempty"`
	IsChair           bool   `json:"is_chair"`
}

type filePayload struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	Size          int64  `json:"size"`
	ExtractedText string `json:"extracted_text,omitempty"`
	Base64Data    string `json:"base64_data,omitempty"`
}

type tokensPayload struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
}

type responsePayload struct {
	ID         string        `json:"id"`
	Provider   string        `json:"provider"`
	Model      string        `json:"model"`
	Content    string        `json:"content"`
	Iteration  int           `json:"iteration"`
	Type       string        `json:"type,omitempty"`
	Tokens     tokensPayload `json:"tokens"`
	Cost       float64       `json:"cost"`
	MemberID   string        `json:"member_id"`
	MemberRole string        `json:"member_role,omitempty"`
}

type resumeStatePayload struct {
	SessionID        string            `json:"session_id"`
	CurrentIteration int               `json:"current_iteration"`
	TotalIterations  int               `json:"total_iterations,omitempty"`
	Responses        []responsePayload `json:"responses"`
	MergedResponses  []responsePayload `json:"merged_responses"`
	TotalCost        float64           `json:"total_cost"`
	TotalTokens      tokensPayload     `json:"total_tokens"`
}

type sessionRequest struct {
	Prompt         string          `json:"prompt"`
	CouncilMembers []memberPayload `json:"council_members"`
	Iterations     *int            `json:"iterations"`
	Template       string          `json:"template"`
	Preset         string          `json:"preset"`
	Autopilot      bool            `json:"autopilot"`
	Files          []filePayload   `json:"files"`
	// SessionID on a resume request names the session when resume_state omits it.
	SessionID   string              `json:"session_id,omitempty"`
	ResumeState *resumeStatePayload `json:"resume_state,omitempty"`
}

type sessionStatePayload struct {
	SessionID        string            `json:"session_id"`
	Status           string            `json:"status"`
	CurrentIteration int               `json:"current_iteration"`
	TotalIterations  int               `json:"total_iterations"`
	Responses        []responsePayload `json:"responses"`
	MergedResponses  []responsePayload `json:"merged_responses"`
	TotalCost        float64           `json:"total_cost"`
	TotalTokens      tokensPayload     `json:"total_tokens"`
	Message          string            `json:"message,omitempty"`
	Error            string            `json:"error,omitempty"`
	Prompt           string            `json:"prompt"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type sessionSummaryPayload struct {
	ID               string    `json:"id"`
	Status           string    `json:"status"`
	Prompt           string    `json:"prompt"`
	CurrentIteration int       `json:"current_iteration"`
	TotalIterations  int       `json:"total_iterations"`
	ChairProvider    string    `json:"chair_provider,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type providerPayload struct {
	Name            string   `json:"name"`
	Configured      bool     `json:"configured"`
	DefaultModel    string   `json:"default_model"`
	AvailableModels []string `json:"available_models"`
}

type archetypePayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

type providerModelsPayload struct {
	Provider        string   `json:"provider"`
	DefaultModel    string   `json:"default_model"`
	AvailableModels []string `json:"available_models"`
}

type templateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Members     []memberPayload `json:"members"`
}

type templatePayload struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Members     []memberPayload `json:"members"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type apiKeyRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

type apiKeyResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type statusResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (r sessionRequest) config() domain.SessionConfig {
	iterations := 1
	if r.Iterations != nil {
		iterations = *r.Iterations
	}

	cfg := domain.SessionConfig{
		Prompt:         r.Prompt,
		Iterations:     iterations,
		SynthesisStyle: domain.SynthesisStyle(r.Template),
		Preset:         domain.Preset(r.Preset),
		Autopilot:      r.Autopilot,
		Files:          make([]domain.Attachment, 0, len(r.Files)),
	}
	cfg.Members = toMembers(r.CouncilMembers)
	for _, f := range r.Files {
		cfg.Files = append(cfg.Files, domain.Attachment{
			Filename:      f.Filename,
			ContentType:   f.ContentType,
			Size:          f.Size,
			ExtractedText: f.ExtractedText,
			Base64Data:    f.Base64Data,
		})
	}
	return cfg
}

func toMembers(payloads []memberPayload) []domain.CouncilMember {
	members := make([]domain.CouncilMember, 0, len(payloads))
	for _, m := range payloads {
		members = append(members, domain.CouncilMember{
			ID:                domain.MemberID(m.ID),
			Provider:          domain.Provider(m.Provider),
			Model:             m.Model,
			Role:              m.Role,
			Archetype:         m.Archetype,
			CustomPersonality: m.CustomPersonality,
			IsChair:           m.IsChair,
		})
	}
	return members
}

func fromMembers(members []domain.CouncilMember) []memberPayload {
	payloads := make([]memberPayload, 0, len(members))
	for _, m := range members {
		payloads = append(payloads, memberPayload{
			ID:                string(m.ID),
			Provider:          string(m.Provider),
			Model:             m.Model,
			Role:              m.Role,
			Archetype:         m.Archetype,
			CustomPersonality: m.CustomPersonality,
			IsChair:           m.IsChair,
		})
	}
	return payloads
}

func (r templateRequest) input() application.TemplateInput {
	return application.TemplateInput{
		Name:        r.Name,
		Description: r.Description,
		Members:     toMembers(r.Members),
	}
}

func fromTemplate(t domain.CouncilTemplate) templatePayload {
	return templatePayload{
		ID:          string(t.ID),
		Name:        t.Name,
		Description: t.Description,
		Members:     fromMembers(t.Members),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r sessionRequest) resumeState() domain.ResumeState {
	if r.ResumeState == nil {
		return domain.ResumeState{SessionID: domain.SessionID(r.SessionID)}
	}

	p := r.ResumeState
	id := p.SessionID
	if id == "" {
		id = r.SessionID
	}
	return domain.ResumeState{
		SessionID:        domain.SessionID(id),
		CurrentIteration: p.CurrentIteration,
		TotalIterations:  p.TotalIterations,
		Responses:        toResponses(p.Responses),
		MergedResponses:  toResponses(p.MergedResponses),
		TotalCost:        p.TotalCost,
		TotalTokens:      domain.TokenUsage{Input: p.TotalTokens.Input, Output: p.TotalTokens.Output},
	}
}

func toResponses(payloads []responsePayload) []domain.CouncilResponse {
	responses := make([]domain.CouncilResponse, 0, len(payloads))
	for _, p := range payloads {
		responses = append(responses, domain.CouncilResponse{
			ID:         p.ID,
			Provider:   domain.Provider(p.Provider),
			Model:      p.Model,
			Content:    p.Content,
			Iteration:  p.Iteration,
			Kind:       domain.ResponseKind(p.Type),
			Tokens:     domain.TokenUsage{Input: p.Tokens.Input, Output: p.Tokens.Output},
			Cost:       p.Cost,
			MemberID:   domain.MemberID(p.MemberID),
			MemberRole: p.MemberRole,
		})
	}
	return responses
}

func fromResponses(responses []domain.CouncilResponse) []responsePayload {
	payloads := make([]responsePayload, 0, len(responses))
	for _, resp := range responses {
		payloads = append(payloads, responsePayload{
			ID:         resp.ID,
			Provider:   string(resp.Provider),
			Model:      resp.Model,
			Content:    resp.Content,
			Iteration:  resp.Iteration,
			Type:       string(resp.Kind),
			Tokens:     tokensPayload{Input: resp.Tokens.Input, Output: resp.Tokens.Output},
			Cost:       resp.Cost,
			MemberID:   string(resp.MemberID),
			MemberRole: resp.MemberRole,
		})
	}
	return payloads
}

func fromState(state domain.SessionState) sessionStatePayload {
	return sessionStatePayload{
		SessionID:        string(state.SessionID),
		Status:           string(state.Status),
		CurrentIteration: state.CurrentIteration,
		TotalIterations:  state.TotalIterations,
		Responses:        fromResponses(state.Responses),
		MergedResponses:  fromResponses(state.MergedResponses),
		TotalCost:        state.TotalCost,
		TotalTokens:      tokensPayload{Input: state.TotalTokens.Input, Output: state.TotalTokens.Output},
		Message:          state.Message,
		Error:            state.Error,
		Prompt:           state.Config.Prompt,
		CreatedAt:        state.CreatedAt,
		UpdatedAt:        state.UpdatedAt,
	}
}

func fromSummary(state domain.SessionState) sessionSummaryPayload {
	summary := sessionSummaryPayload{
		ID:               string(state.SessionID),
		Status:           string(state.Status),
		Prompt:           state.Config.Prompt,
		CurrentIteration: state.CurrentIteration,
		TotalIterations:  state.TotalIterations,
		CreatedAt:        state.CreatedAt,
	}
	if chair, ok := domain.Chair(state.Config.Members); ok {
		summary.ChairProvider = string(chair.Provider)
	}
	return summary
}

func fromProvider(info application.ProviderInfo) providerPayload {
	models := info.AvailableModels
	if models == nil {
		models = []string{}
	}
	return providerPayload{
		Name:            string(info.Name),
		Configured:      info.Configured,
		DefaultModel:    info.DefaultModel,
		AvailableModels: models,
	}
}

func fromArchetype(a domain.Archetype) archetypePayload {
	return archetypePayload{ID: a.ID, Name: a.Name, Description: a.Description, Prompt: a.PromptFragment}
}
