package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bnema/llm-council/internal/application"
	"github.com/bnema/llm-council/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")
	ErrStreamEnded           = errors.New("session stream ended before completion")
)

type renderReadyMsg struct{}

type transcriptModel struct {
	state  domain.SessionState
	opts   RenderOptions
	styles styles
	output string
}

func (m transcriptModel) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m transcriptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderTranscript(m.state, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m transcriptModel) View() string {
	return m.output
}

// Render returns the full transcript of a stored session.
func Render(state domain.SessionState, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		transcriptModel{state: state, opts: opts, styles: newStyles()},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(transcriptModel)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}

// Result is what a watched stream ended with.
type Result struct {
	SessionID domain.SessionID
	Complete  *application.CompleteEvent
	Err       error
}

type eventMsg struct {
	event application.Event
}

type streamClosedMsg struct{}

type watchModel struct {
	spinner   spinner.Model
	events    <-chan application.Event
	opts      RenderOptions
	styles    styles
	label     string
	responses int
	result    Result
	closed    bool
}

func newWatchModel(events <-chan application.Event, opts RenderOptions) watchModel {
	s := newStyles()
	return watchModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.spinner)),
		events:  events,
		opts:    opts,
		styles:  s,
		label:   "Starting council session...",
	}
}

func waitForEvent(events <-chan application.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg{event: event}
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case eventMsg:
		m = m.apply(msg.event)
		next := waitForEvent(m.events)
		if rendered, ok := renderEvent(msg.event, m.opts, m.styles); ok {
			return m, tea.Sequence(tea.Println(rendered), next)
		}
		return m, next
	case streamClosedMsg:
		m.closed = true
		if m.result.Complete == nil && m.result.Err == nil {
			m.result.Err = ErrStreamEnded
		}
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m watchModel) apply(event application.Event) watchModel {
	m.result.SessionID = event.SessionID()
	switch ev := event.(type) {
	case application.StatusEvent:
		m.label = ev.Message
	case application.InitialResponseEvent, application.FeedbackEvent:
		m.responses++
		m.label = fmt.Sprintf("%d responses received...", m.responses)
	case application.MergeEvent:
		m.label = fmt.Sprintf("Iteration %d merged", ev.Response.Iteration)
	case application.CompleteEvent:
		m.result.Complete = &ev
	case application.ErrorEvent:
		m.result.Err = ev.Err
		if m.result.Err == nil {
			m.result.Err = errors.New(ev.Message)
		}
	}
	return m
}

func (m watchModel) View() string {
	if m.closed {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// Watch prints every event of a running session above a spinner until the
// stream closes.
func Watch(ctx context.Context, output io.Writer, events <-chan application.Event, opts RenderOptions) (Result, error) {
	p := tea.NewProgram(
		newWatchModel(events, opts),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, err
	}

	result, ok := finalModel.(watchModel)
	if !ok {
		return Result{}, ErrUnexpectedRenderModel
	}

	return result.result, nil
}
