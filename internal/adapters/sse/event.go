package sse

import (
	"github.com/bnema/llm-council/internal/application"
	"github.com/bnema/llm-council/internal/domain"
)

const (
	TypeSessionCreated  = "session_created"
	TypeStatus          = "status"
	TypeInitialResponse = "initial_response"
	TypeFeedback        = "feedback"
	TypeMerge           = "merge"
	TypeComplete        = "complete"
	TypeError           = "error"
)

type Tokens struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
}

// WireEvent is the JSON object carried by one SSE data line.
type WireEvent struct {
	Type        string   `json:"type"`
	SessionID   string   `json:"session_id,omitempty"`
	Message     string   `json:"message,omitempty"`
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	Content     string   `json:"content,omitempty"`
	Iteration   int      `json:"iteration,omitempty"`
	Tokens      *Tokens  `json:"tokens,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	Done        *bool    `json:"done,omitempty"`
	ResponseID  string   `json:"response_id,omitempty"`
	MemberID    string   `json:"member_id,omitempty"`
	MemberRole  string   `json:"member_role,omitempty"`
	Resumed     bool     `json:"resumed,omitempty"`
	TotalCost   *float64 `json:"total_cost,omitempty"`
	TotalTokens *Tokens  `json:"total_tokens,omitempty"`
}

func FromEvent(event application.Event) WireEvent {
	switch ev := event.(type) {
	case application.SessionCreatedEvent:
		return WireEvent{Type: TypeSessionCreated, SessionID: string(ev.Session), Message: ev.Message, Resumed: ev.Resumed}
	case application.StatusEvent:
		return WireEvent{Type: TypeStatus, SessionID: string(ev.Session), Message: ev.Message, Iteration: ev.Iteration}
	case application.InitialResponseEvent:
		return fromResponse(TypeInitialResponse, ev.Session, ev.Response)
	case application.FeedbackEvent:
		return fromResponse(TypeFeedback, ev.Session, ev.Response)
	case application.MergeEvent:
		return fromResponse(TypeMerge, ev.Session, ev.Response)
	case application.CompleteEvent:
		cost := ev.TotalCost
		return WireEvent{
			Type:        TypeComplete,
			SessionID:   string(ev.Session),
			Message:     ev.Message,
			Iteration:   ev.Iterations,
			TotalCost:   &cost,
			TotalTokens: &Tokens{Input: ev.TotalTokens.Input, Output: ev.TotalTokens.Output},
		}
	case application.ErrorEvent:
		return WireEvent{Type: TypeError, SessionID: string(ev.Session), Message: ev.Message}
	default:
		return WireEvent{Type: TypeError, SessionID: string(event.SessionID()), Message: "unknown event"}
	}
}

func fromResponse(kind string, session domain.SessionID, resp domain.CouncilResponse) WireEvent {
	cost := resp.Cost
	done := true
	return WireEvent{
		Type:       kind,
		SessionID:  string(session),
		Provider:   string(resp.Provider),
		Model:      resp.Model,
		Content:    resp.Content,
		Iteration:  resp.Iteration,
		Tokens:     &Tokens{Input: resp.Tokens.Input, Output: resp.Tokens.Output},
		Cost:       &cost,
		Done:       &done,
		ResponseID: resp.ID,
		MemberID:   string(resp.MemberID),
		MemberRole: resp.MemberRole,
	}
}
