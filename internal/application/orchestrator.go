package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

const (
	DefaultMaxTokens = 4000

	messagePaused      = "session paused"
	messageInterrupted = "stream interrupted"
	messageCancelled   = "session cancelled"
)

type MemberValidator interface {
	ValidateMember(ctx context.Context, member domain.CouncilMember) error
}

type Option func(*orchestratorOptions)

type orchestratorOptions struct {
	costs      *CostAccountant
	retry      RetryPolicy
	logger     *slog.Logger
	clock      ports.Clock
	archetypes *ArchetypeCatalog
	validator  MemberValidator
	limits     domain.Limits
	maxTokens  int
	newID      func() string
}

func WithCostAccountant(costs *CostAccountant) Option {
	return func(o *orchestratorOptions) { o.costs = costs }
}

func WithRetryPolicy(retry RetryPolicy) Option {
	return func(o *orchestratorOptions) { o.retry = retry }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *orchestratorOptions) { o.logger = logger }
}

func WithClock(clock ports.Clock) Option {
	return func(o *orchestratorOptions) { o.clock = clock }
}

func WithArchetypes(catalog *ArchetypeCatalog) Option {
	return func(o *orchestratorOptions) { o.archetypes = catalog }
}

func WithMemberValidator(validator MemberValidator) Option {
	return func(o *orchestratorOptions) { o.validator = validator }
}

func WithLimits(limits domain.Limits) Option {
	return func(o *orchestratorOptions) { o.limits = limits }
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *orchestratorOptions) { o.maxTokens = maxTokens }
}

// WithIDGenerator replaces the uuid source for session and response ids.
func WithIDGenerator(newID func() string) Option {
	return func(o *orchestratorOptions) { o.newID = newID }
}

type Orchestrator struct {
	store      ports.SessionStore
	rounds     *RoundEngine
	merges     *MergeStage
	archetypes *ArchetypeCatalog
	validator  MemberValidator
	limits     domain.Limits
	maxTokens  int
	clock      ports.Clock
	logger     *slog.Logger
	newID      func() string

	mu     sync.Mutex
	active map[domain.SessionID]context.CancelCauseFunc
}

func NewOrchestrator(gateway ports.ProviderGateway, store ports.SessionStore, opts ...Option) *Orchestrator {
	options := orchestratorOptions{
		costs:     NewCostAccountant(nil),
		retry:     DefaultRetryPolicy(),
		limits:    domain.DefaultLimits(),
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.New(slog.DiscardHandler)
	}
	if options.clock == nil {
		options.clock = ports.SystemClock{}
	}
	if options.archetypes == nil {
		options.archetypes = NewArchetypeCatalog()
	}
	if options.newID == nil {
		options.newID = newResponseID
	}

	return &Orchestrator{
		store:      store,
		rounds:     NewRoundEngine(gateway, options.costs, options.retry, options.logger, options.newID),
		merges:     NewMergeStage(gateway, options.costs, options.retry, options.logger, options.newID),
		archetypes: options.archetypes,
		validator:  options.validator,
		limits:     options.limits,
		maxTokens:  options.maxTokens,
		clock:      options.clock,
		logger:     options.logger,
		newID:      options.newID,
		active:     map[domain.SessionID]context.CancelCauseFunc{},
	}
}

// Start validates cfg and runs a new session. The returned channel is
// unbuffered and closed after the last event. Cancelling ctx is treated as
// the client going away: the session is left paused.
func (o *Orchestrator) Start(ctx context.Context, cfg domain.SessionConfig) (domain.SessionID, <-chan Event, error) {
	if err := o.validate(ctx, cfg); err != nil {
		return "", nil, err
	}

	id := domain.SessionID(o.newID())
	state := domain.NewSessionState(id, cfg, o.clock.Now())

	events, err := o.launch(ctx, state, false)
	if err != nil {
		return "", nil, err
	}
	return id, events, nil
}

// Resume continues a paused session from a client-held snapshot. The round
// that was in flight at pause time is run again from scratch.
func (o *Orchestrator) Resume(ctx context.Context, cfg domain.SessionConfig, snapshot domain.ResumeState) (domain.SessionID, <-chan Event, error) {
	if err := o.validate(ctx, cfg); err != nil {
		return "", nil, err
	}

	state, err := snapshot.Restore(cfg)
	if err != nil {
		return "", nil, err
	}

	id := snapshot.SessionID
	if id == "" {
		id = domain.SessionID(o.newID())
	}
	state.SessionID = id
	state.CreatedAt = o.clock.Now()

	stored, err := o.store.Get(ctx, id)
	switch {
	case err == nil:
		if stored.Status.Terminal() {
			return "", nil, fmt.Errorf("resume session %s: %w", id, domain.ErrSessionTerminal)
		}
		if stored.TotalIterations != cfg.Iterations {
			return "", nil, &domain.ResumeMismatchError{
				Reason: fmt.Sprintf("iteration count changed from %d to %d", stored.TotalIterations, cfg.Iterations),
			}
		}
		state.CreatedAt = stored.CreatedAt
	case errors.Is(err, domain.ErrSessionNotFound):
	default:
		return "", nil, fmt.Errorf("get session %s: %w", id, err)
	}

	events, err := o.launch(ctx, state, true)
	if err != nil {
		return "", nil, err
	}
	return id, events, nil
}

// Pause stops the active run for id. Provider calls already in flight are abandoned.
func (o *Orchestrator) Pause(ctx context.Context, id domain.SessionID) error {
	if o.cancelActive(id, domain.ErrPauseRequested) {
		return nil
	}

	state, err := o.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("pause session %s: %w", id, err)
	}
	if state.Status.Terminal() {
		return fmt.Errorf("pause session %s: %w", id, domain.ErrSessionTerminal)
	}
	if state.Status == domain.StatusPaused {
		return nil
	}

	// A running record without a live run was left behind by a previous process.
	state.Status = domain.StatusPaused
	state.Message = messagePaused
	state.UpdatedAt = o.clock.Now()
	if err := o.store.Put(ctx, state); err != nil {
		return fmt.Errorf("save paused session %s: %w", id, err)
	}
	return nil
}

// Cancel marks the session failed and refuses any later resume.
func (o *Orchestrator) Cancel(ctx context.Context, id domain.SessionID) error {
	if o.cancelActive(id, domain.ErrSessionCancelled) {
		return nil
	}

	state, err := o.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel session %s: %w", id, err)
	}
	if state.Status.Terminal() {
		return nil
	}

	state.Status = domain.StatusFailed
	state.Message = messageCancelled
	state.Error = messageCancelled
	state.UpdatedAt = o.clock.Now()
	if err := o.store.Put(ctx, state); err != nil {
		return fmt.Errorf("save cancelled session %s: %w", id, err)
	}
	return nil
}

func (o *Orchestrator) Get(ctx context.Context, id domain.SessionID) (domain.SessionState, error) {
	state, err := o.store.Get(ctx, id)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return state, nil
}

func (o *Orchestrator) List(ctx context.Context) ([]domain.SessionState, error) {
	states, err := o.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return states, nil
}

// Delete forgets a session that is not running.
func (o *Orchestrator) Delete(ctx context.Context, id domain.SessionID) error {
	if o.isActive(id) {
		return fmt.Errorf("delete session %s: %w", id, domain.ErrSessionActive)
	}
	if err := o.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (o *Orchestrator) validate(ctx context.Context, cfg domain.SessionConfig) error {
	if err := cfg.Validate(o.limits); err != nil {
		return err
	}
	if o.validator == nil {
		return nil
	}
	for _, member := range cfg.Members {
		if err := o.validator.ValidateMember(ctx, member); err != nil {
			return &domain.ValidationError{
				Field:  "council_members",
				Reason: fmt.Sprintf("member %q: %v", member.ID, err),
			}
		}
	}
	return nil
}

func (o *Orchestrator) launch(ctx context.Context, state domain.SessionState, resumed bool) (<-chan Event, error) {
	runCtx, cancel := context.WithCancelCause(ctx)

	o.mu.Lock()
	if _, running := o.active[state.SessionID]; running {
		o.mu.Unlock()
		cancel(nil)
		return nil, fmt.Errorf("start session %s: %w", state.SessionID, domain.ErrSessionActive)
	}
	o.active[state.SessionID] = cancel
	o.mu.Unlock()

	out := make(chan Event)
	run := &sessionRun{
		o:        o,
		ctx:      runCtx,
		consumer: ctx,
		state:    state,
		out:      out,
		logger:   o.logger.With("session_id", state.SessionID),
	}

	go func() {
		defer close(out)
		defer cancel(nil)
		defer o.unregister(state.SessionID)

		run.execute(resumed)
	}()

	return out, nil
}

func (o *Orchestrator) cancelActive(id domain.SessionID, cause error) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	cancel, ok := o.active[id]
	if ok {
		cancel(cause)
	}
	return ok
}

func (o *Orchestrator) isActive(id domain.SessionID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	_, ok := o.active[id]
	return ok
}

func (o *Orchestrator) unregister(id domain.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.active, id)
}
