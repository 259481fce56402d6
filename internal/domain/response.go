package domain

import "fmt"

type ResponseKind string

const (
	KindInitialResponse ResponseKind = "initial_response"
	KindMerge           ResponseKind = "merge"
	KindFeedback        ResponseKind = "feedback"
)

type TokenUsage struct {
	Input  int64
	Output int64
}

func (u TokenUsage) Total() int64 {
	return u.Input + u.Output
}

func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{Input: u.Input + other.Input, Output: u.Output + other.Output}
}

func (u TokenUsage) TotalCompact() string {
	return compactNumber(u.Total())
}

func compactNumber(v int64) string {
	if v < 1_000 {
		return fmt.Sprintf("%d", v)
	}

	if v < 1_000_000 {
		return fmt.Sprintf("%.1fk", float64(v)/1_000)
	}

	return fmt.Sprintf("%.1fM", float64(v)/1_000_000)
}

type CouncilResponse struct {
	ID         string
	Provider   Provider
	Model      string
	Content    string
	Iteration  int
	Kind       ResponseKind
	Tokens     TokenUsage
	Cost       float64
	MemberID   MemberID
	MemberRole string
}
