package session

import (
	"fmt"
	"strings"

	"github.com/bnema/llm-council/internal/application"
	"github.com/bnema/llm-council/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	// Width wraps response bodies; zero leaves them unwrapped.
	Width int
	// MergesOnly hides member responses and keeps the chair's merged answers.
	MergesOnly bool
}

func renderTranscript(state domain.SessionState, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Council Session " + string(state.SessionID)),
		s.header.Render(sessionSummary(state)),
	}
	if state.Error != "" {
		lines = append(lines, s.warning.Render("error: "+state.Error))
	}

	if len(state.Responses) == 0 && len(state.MergedResponses) == 0 {
		lines = append(lines, s.empty.Render("No responses recorded."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for iteration := 1; iteration <= lastIteration(state); iteration++ {
		block := []string{s.title.Render(fmt.Sprintf("Iteration %d", iteration))}
		if !opts.MergesOnly {
			for _, resp := range state.ResponsesFor(iteration) {
				block = append(block, renderResponse(resp, opts, s))
			}
		}
		for _, merged := range state.MergedResponses {
			if merged.Iteration == iteration {
				block = append(block, renderResponse(merged, opts, s))
			}
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, block...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderResponse(resp domain.CouncilResponse, opts RenderOptions, s styles) string {
	nameStyle := s.member
	if resp.Kind == domain.KindMerge {
		nameStyle = s.chair
	}

	heading := lipgloss.JoinHorizontal(
		lipgloss.Top,
		nameStyle.Render(memberLabel(resp)),
		" ",
		s.badge.Render(fmt.Sprintf("[%s] %s/%s", kindLabel(resp.Kind), resp.Provider, resp.Model)),
	)

	body := s.content
	if opts.Width > 0 {
		body = body.Width(opts.Width)
	}

	block := lipgloss.JoinVertical(
		lipgloss.Left,
		heading,
		body.Render(strings.TrimSpace(resp.Content)),
		s.meta.Render(fmt.Sprintf("tokens %d in / %d out, %s", resp.Tokens.Input, resp.Tokens.Output, formatCost(resp.Cost))),
	)
	if resp.Kind == domain.KindMerge {
		return s.section.Render(s.merge.Render(block))
	}
	return s.section.Render(block)
}

func renderEvent(event application.Event, opts RenderOptions, s styles) (string, bool) {
	switch ev := event.(type) {
	case application.SessionCreatedEvent:
		label := "session " + string(ev.Session)
		if ev.Resumed {
			label += " (resumed)"
		}
		return s.title.Render(label), true
	case application.InitialResponseEvent:
		if opts.MergesOnly {
			return "", false
		}
		return renderResponse(ev.Response, opts, s), true
	case application.FeedbackEvent:
		if opts.MergesOnly {
			return "", false
		}
		return renderResponse(ev.Response, opts, s), true
	case application.MergeEvent:
		return renderResponse(ev.Response, opts, s), true
	case application.CompleteEvent:
		return s.section.Render(s.complete.Render(fmt.Sprintf(
			"%s: %d iterations, %s, %s tokens",
			ev.Message, ev.Iterations, formatCost(ev.TotalCost), ev.TotalTokens.TotalCompact(),
		))), true
	case application.ErrorEvent:
		return s.section.Render(s.warning.Render("error: " + ev.Message)), true
	default:
		return "", false
	}
}

func sessionSummary(state domain.SessionState) string {
	parts := []string{
		"status: " + string(state.Status),
		fmt.Sprintf("iteration %d/%d", state.CurrentIteration, state.TotalIterations),
		"cost " + formatCost(state.TotalCost),
		"tokens " + state.TotalTokens.TotalCompact(),
	}
	if state.Message != "" {
		parts = append(parts, state.Message)
	}
	return strings.Join(parts, " | ")
}

func lastIteration(state domain.SessionState) int {
	last := 0
	for _, resp := range state.Responses {
		last = max(last, resp.Iteration)
	}
	for _, resp := range state.MergedResponses {
		last = max(last, resp.Iteration)
	}
	return last
}

func memberLabel(resp domain.CouncilResponse) string {
	if resp.MemberRole != "" {
		return resp.MemberRole
	}
	if resp.MemberID != "" {
		return string(resp.MemberID)
	}
	return string(resp.Provider)
}

func kindLabel(kind domain.ResponseKind) string {
	switch kind {
	case domain.KindMerge:
		return "merge"
	case domain.KindFeedback:
		return "feedback"
	default:
		return "initial"
	}
}

func formatCost(cost float64) string {
	if cost == 0 {
		return "free"
	}
	return fmt.Sprintf("$%.4f", cost)
}
