package domain

import (
	"math"
	"time"
)

type SessionStatus string

const (
	StatusIdle      SessionStatus = "idle"
	StatusRunning   SessionStatus = "running"
	StatusPaused    SessionStatus = "paused"
	StatusCompleted SessionStatus = "completed"
	StatusFailed    SessionStatus = "failed"
)

func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type SessionState struct {
	SessionID        SessionID
	Status           SessionStatus
	CurrentIteration int
	TotalIterations  int
	Responses        []CouncilResponse
	MergedResponses  []CouncilResponse
	TotalCost        float64
	TotalTokens      TokenUsage
	Message          string
	Error            string
	Config           SessionConfig
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewSessionState(id SessionID, cfg SessionConfig, now time.Time) SessionState {
	return SessionState{
		SessionID:       id,
		Status:          StatusIdle,
		TotalIterations: cfg.Iterations,
		Config:          cfg,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Record appends resp to the matching list and adds it to the running totals.
func (s *SessionState) Record(resp CouncilResponse) {
	if resp.Kind == KindMerge {
		s.MergedResponses = append(s.MergedResponses, resp)
	} else {
		s.Responses = append(s.Responses, resp)
	}
	s.TotalCost = roundCost(s.TotalCost + resp.Cost)
	s.TotalTokens = s.TotalTokens.Add(resp.Tokens)
}

func (s SessionState) LastMerge() (CouncilResponse, bool) {
	if len(s.MergedResponses) == 0 {
		return CouncilResponse{}, false
	}
	return s.MergedResponses[len(s.MergedResponses)-1], true
}

func (s SessionState) ResponsesFor(iteration int) []CouncilResponse {
	result := make([]CouncilResponse, 0)
	for _, resp := range s.Responses {
		if resp.Iteration == iteration {
			result = append(result, resp)
		}
	}
	return result
}

func (s SessionState) Clone() SessionState {
	clone := s
	clone.Responses = append([]CouncilResponse(nil), s.Responses...)
	clone.MergedResponses = append([]CouncilResponse(nil), s.MergedResponses...)
	clone.Config.Members = append([]CouncilMember(nil), s.Config.Members...)
	clone.Config.Files = append([]Attachment(nil), s.Config.Files...)
	return clone
}

func (s *SessionState) recomputeTotals() {
	s.TotalCost = 0
	s.TotalTokens = TokenUsage{}
	for _, resp := range s.Responses {
		s.TotalCost += resp.Cost
		s.TotalTokens = s.TotalTokens.Add(resp.Tokens)
	}
	for _, resp := range s.MergedResponses {
		s.TotalCost += resp.Cost
		s.TotalTokens = s.TotalTokens.Add(resp.Tokens)
	}
	s.TotalCost = roundCost(s.TotalCost)
}

func roundCost(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// ResumeState is the client-held snapshot of a paused session.
type ResumeState struct {
	SessionID        SessionID
	CurrentIteration int
	TotalIterations  int
	Responses        []CouncilResponse
	MergedResponses  []CouncilResponse
	TotalCost        float64
	TotalTokens      TokenUsage
}

func (s SessionState) ResumeState() ResumeState {
	clone := s.Clone()
	return ResumeState{
		SessionID:        clone.SessionID,
		CurrentIteration: clone.CurrentIteration,
		TotalIterations:  clone.TotalIterations,
		Responses:        clone.Responses,
		MergedResponses:  clone.MergedResponses,
		TotalCost:        clone.TotalCost,
		TotalTokens:      clone.TotalTokens,
	}
}

const costTolerance = 1e-6

// Restore checks the snapshot against cfg and rebuilds the state the engine
// continues from. Responses of an iteration that has no merge yet are
// dropped so that round is run again from scratch.
func (r ResumeState) Restore(cfg SessionConfig) (SessionState, error) {
	if r.TotalIterations != 0 && r.TotalIterations != cfg.Iterations {
		return SessionState{}, mismatch("iteration count changed from %d to %d", r.TotalIterations, cfg.Iterations)
	}
	k := r.CurrentIteration
	if k == 0 && len(r.MergedResponses) == 0 && len(r.Responses) == 0 {
		// Paused before the first round started.
		k = 1
	}
	if k < 1 || k > cfg.Iterations {
		return SessionState{}, mismatch("current iteration %d outside 1..%d", k, cfg.Iterations)
	}

	merged := len(r.MergedResponses)
	if merged != k && merged != k-1 {
		return SessionState{}, mismatch("iteration %d has %d merged responses", k, merged)
	}

	chair, _ := Chair(cfg.Members)
	var sumCost float64
	var sumTokens TokenUsage

	restored := SessionState{
		SessionID:       r.SessionID,
		TotalIterations: cfg.Iterations,
		Config:          cfg,
	}

	for i, resp := range r.MergedResponses {
		if resp.Iteration != i+1 {
			return SessionState{}, mismatch("merged response %d belongs to iteration %d", i+1, resp.Iteration)
		}
		if resp.Kind != "" && resp.Kind != KindMerge {
			return SessionState{}, mismatch("merged response %d has kind %q", i+1, resp.Kind)
		}
		if resp.MemberID != "" && resp.MemberID != chair.ID {
			return SessionState{}, mismatch("merged response %d was not produced by chair %q", i+1, chair.ID)
		}
		resp.Kind = KindMerge
		sumCost += resp.Cost
		sumTokens = sumTokens.Add(resp.Tokens)
		restored.MergedResponses = append(restored.MergedResponses, resp)
	}

	for _, resp := range r.Responses {
		if resp.Iteration < 1 || resp.Iteration > k {
			return SessionState{}, mismatch("response %q belongs to iteration %d", resp.ID, resp.Iteration)
		}
		if _, ok := cfg.Member(resp.MemberID); !ok {
			return SessionState{}, mismatch("response %q references unknown member %q", resp.ID, resp.MemberID)
		}
		want := KindFeedback
		if resp.Iteration == 1 {
			want = KindInitialResponse
		}
		if resp.Kind != "" && resp.Kind != want {
			return SessionState{}, mismatch("response %q in iteration %d has kind %q", resp.ID, resp.Iteration, resp.Kind)
		}
		resp.Kind = want
		sumCost += resp.Cost
		sumTokens = sumTokens.Add(resp.Tokens)
		if resp.Iteration <= merged {
			restored.Responses = append(restored.Responses, resp)
		}
	}

	if math.Abs(sumCost-r.TotalCost) > costTolerance {
		return SessionState{}, mismatch("total cost %.6f does not match responses (%.6f)", r.TotalCost, sumCost)
	}
	if sumTokens != r.TotalTokens {
		return SessionState{}, mismatch("total tokens %d/%d do not match responses (%d/%d)",
			r.TotalTokens.Input, r.TotalTokens.Output, sumTokens.Input, sumTokens.Output)
	}

	restored.CurrentIteration = merged
	restored.recomputeTotals()
	return restored, nil
}
