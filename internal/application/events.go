package application

import "github.com/bnema/llm-council/internal/domain"

// Event is one step of a session stream. The concrete types below are the only implementations.
type Event interface {
	SessionID() domain.SessionID
	isEvent()
}

type SessionCreatedEvent struct {
	Session domain.SessionID
	Message string
	Resumed bool
}

type StatusEvent struct {
	Session   domain.SessionID
	Iteration int
	Message   string
}

type InitialResponseEvent struct {
	Session  domain.SessionID
	Response domain.CouncilResponse
}

type FeedbackEvent struct {
	Session  domain.SessionID
	Response domain.CouncilResponse
}

type MergeEvent struct {
	Session  domain.SessionID
	Response domain.CouncilResponse
}

type CompleteEvent struct {
	Session     domain.SessionID
	Message     string
	Iterations  int
	TotalCost   float64
	TotalTokens domain.TokenUsage
}

type ErrorEvent struct {
	Session domain.SessionID
	Message string
	Err     error
}

func (e SessionCreatedEvent) SessionID() domain.SessionID  { return e.Session }
func (e StatusEvent) SessionID() domain.SessionID          { return e.Session }
func (e InitialResponseEvent) SessionID() domain.SessionID { return e.Session }
func (e FeedbackEvent) SessionID() domain.SessionID        { return e.Session }
func (e MergeEvent) SessionID() domain.SessionID           { return e.Session }
func (e CompleteEvent) SessionID() domain.SessionID        { return e.Session }
func (e ErrorEvent) SessionID() domain.SessionID           { return e.Session }

func (SessionCreatedEvent) isEvent()  {}
func (StatusEvent) isEvent()          {}
func (InitialResponseEvent) isEvent() {}
func (FeedbackEvent) isEvent()        {}
func (MergeEvent) isEvent()           {}
func (CompleteEvent) isEvent()        {}
func (ErrorEvent) isEvent()           {}

func responseEvent(id domain.SessionID, resp domain.CouncilResponse) Event {
	switch resp.Kind {
	case domain.KindMerge:
		return MergeEvent{Session: id, Response: resp}
	case domain.KindFeedback:
		return FeedbackEvent{Session: id, Response: resp}
	default:
		return InitialResponseEvent{Session: id, Response: resp}
	}
}
