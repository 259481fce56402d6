package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	sessionrender "github.com/bnema/llm-council/internal/adapters/render/session"
	"github.com/bnema/llm-council/internal/adapters/sse"
	"github.com/bnema/llm-council/internal/application"
	"github.com/bnema/llm-council/internal/config"
	"github.com/bnema/llm-council/internal/domain"
	"github.com/spf13/cobra"
)

type runOptions struct {
	prompt     string
	members    []string
	template   string
	chair      string
	iterations int
	style      string
	preset     string
	files      []string
	asJSON     bool
	mergesOnly bool
}

func newRunCmd(app *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a council session in this process",
		Example: `  council run --prompt "Review this plan" \
    --member openai:gpt-4o:Chair:synthesizer \
    --member anthropic:claude-sonnet-4-20250514:Critic:critic \
    --member ollama:llama3.2 --iterations 2 --file plan.md
  council run --prompt "Review this plan" --template <template-id>`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildSessionConfig(cmd.Context(), app, opts, cmd.Flags().Changed("chair"))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			id, events, err := app.orchestrator.Start(ctx, cfg)
			if err != nil {
				return err
			}
			return followSession(ctx, cmd, app, id, events, opts.asJSON, opts.mergesOnly)
		},
	}

	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "Prompt sent to every council member")
	cmd.Flags().StringArrayVar(&opts.members, "member", nil, "Council member as provider:model[:role[:archetype]] (repeatable)")
	cmd.Flags().StringVar(&opts.template, "template", "", "Start from the members of a saved council template")
	cmd.Flags().StringVar(&opts.chair, "chair", "1", "Chair as a 1-based member index or member id")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 1, "Number of council iterations")
	cmd.Flags().StringVar(&opts.style, "style", string(domain.StyleBalanced), "Synthesis style (analytical|creative|technical|balanced)")
	cmd.Flags().StringVar(&opts.preset, "preset", string(domain.PresetBalanced), "Temperature preset (creative|balanced|precise)")
	cmd.Flags().StringArrayVar(&opts.files, "file", nil, "Attach a text or image file (repeatable)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print wire events as JSON lines")
	cmd.Flags().BoolVar(&opts.mergesOnly, "merges-only", false, "Only print the chair's merged answers")
	_ = cmd.MarkFlagRequired("prompt")
	cmd.MarkFlagsOneRequired("member", "template")
	cmd.MarkFlagsMutuallyExclusive("member", "template")

	return cmd
}

func buildSessionConfig(ctx context.Context, app *app, opts runOptions, chairSet bool) (domain.SessionConfig, error) {
	var members []domain.CouncilMember
	if opts.template != "" {
		template, err := app.templates.GetTemplate(ctx, domain.TemplateID(opts.template))
		if err != nil {
			return domain.SessionConfig{}, err
		}
		members = template.Members
		// An explicit --chair overrides the chair saved with the template.
		if chairSet {
			for i := range members {
				members[i].IsChair = false
			}
			chairIdx, err := resolveChair(members, opts.chair)
			if err != nil {
				return domain.SessionConfig{}, err
			}
			members[chairIdx].IsChair = true
		}
	} else {
		var err error
		if members, err = parseMembers(opts.members, opts.chair); err != nil {
			return domain.SessionConfig{}, err
		}
	}

	attachments := make([]domain.Attachment, 0, len(opts.files))
	for _, path := range opts.files {
		attachment, err := app.files.ReadFile(path)
		if err != nil {
			return domain.SessionConfig{}, err
		}
		attachments = append(attachments, attachment)
	}

	return domain.SessionConfig{
		Prompt:         opts.prompt,
		Members:        members,
		Iterations:     opts.iterations,
		SynthesisStyle: domain.SynthesisStyle(strings.ToLower(opts.style)),
		Preset:         domain.Preset(strings.ToLower(opts.preset)),
		Files:          attachments,
		Autopilot:      true,
	}, nil
}

func parseMembers(raw []string, chair string) ([]domain.CouncilMember, error) {
	members := make([]domain.CouncilMember, 0, len(raw))
	for i, entry := range raw {
		member, err := parseMember(entry, i)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	chairIdx, err := resolveChair(members, chair)
	if err != nil {
		return nil, err
	}
	members[chairIdx].IsChair = true
	return members, nil
}

// parseMember reads provider:model[:role[:archetype]]. Member ids are m1, m2, ...
func parseMember(raw string, index int) (domain.CouncilMember, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 4)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return domain.CouncilMember{}, fmt.Errorf("invalid member %q: want provider:model[:role[:archetype]]", raw)
	}

	provider, err := domain.ParseProvider(parts[0])
	if err != nil {
		return domain.CouncilMember{}, fmt.Errorf("invalid member %q: %w", raw, err)
	}

	member := domain.CouncilMember{
		ID:       domain.MemberID("m" + strconv.Itoa(index+1)),
		Provider: provider,
		Model:    strings.TrimSpace(parts[1]),
	}
	if len(parts) > 2 {
		member.Role = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		member.Archetype = strings.TrimSpace(parts[3])
	}
	return member, nil
}

func resolveChair(members []domain.CouncilMember, raw string) (int, error) {
	if len(members) == 0 {
		return 0, fmt.Errorf("at least one --member is required")
	}

	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 || n > len(members) {
			return 0, fmt.Errorf("chair index %d is out of range 1..%d", n, len(members))
		}
		return n - 1, nil
	}

	for i, member := range members {
		if string(member.ID) == raw {
			return i, nil
		}
	}
	return 0, fmt.Errorf("chair %q does not match any member", raw)
}

// followSession prints a running session until its stream closes. An
// interrupt leaves the session paused and is not an error.
func followSession(ctx context.Context, cmd *cobra.Command, app *app, id domain.SessionID, events <-chan application.Event, asJSON bool, mergesOnly bool) error {
	var err error
	if asJSON {
		err = sse.Stream(ctx, sse.NewLineWriter(cmd.OutOrStdout()), events)
	} else {
		var result sessionrender.Result
		result, err = sessionrender.Watch(ctx, cmd.OutOrStdout(), events, renderOptions(mergesOnly))
		if err == nil && result.Err != nil {
			return result.Err
		}
	}

	if ctx.Err() != nil {
		for range events {
		}
		if app.config.Store.Driver == config.StoreMemory {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "session %s paused; the memory store drops it when council exits\n", id)
			return nil
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "session %s paused; resume it with `council sessions resume %s`\n", id, id)
		return nil
	}
	if err != nil {
		return err
	}
	return sessionOutcome(app, id)
}

func sessionOutcome(app *app, id domain.SessionID) error {
	state, err := app.orchestrator.Get(context.Background(), id)
	if err != nil {
		return err
	}
	if state.Status == domain.StatusFailed {
		return fmt.Errorf("session %s failed: %s", id, state.Error)
	}
	return nil
}
