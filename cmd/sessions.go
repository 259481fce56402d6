package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Inspect and manage stored council sessions",
	}

	cmd.AddCommand(
		newSessionsListCmd(app),
		newSessionsShowCmd(app),
		newSessionsResumeCmd(app),
		newSessionsCancelCmd(app),
		newSessionsDeleteCmd(app),
	)

	return cmd
}

type sessionSummaryOutput struct {
	ID               string    `json:"session_id"`
	Status           string    `json:"status"`
	CurrentIteration int       `json:"current_iteration"`
	TotalIterations  int       `json:"total_iterations"`
	TotalCost        float64   `json:"total_cost"`
	Prompt           string    `json:"prompt"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newSessionsListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			states, err := app.orchestrator.List(cmd.Context())
			if err != nil {
				return err
			}

			summaries := make([]sessionSummaryOutput, 0, len(states))
			for _, state := range states {
				summaries = append(summaries, sessionSummaryOutput{
					ID:               string(state.SessionID),
					Status:           string(state.Status),
					CurrentIteration: state.CurrentIteration,
					TotalIterations:  state.TotalIterations,
					TotalCost:        state.TotalCost,
					Prompt:           state.Config.Prompt,
					UpdatedAt:        state.UpdatedAt,
				})
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			if len(summaries) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No sessions stored.")
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tITERATION\tCOST\tPROMPT")
			for _, s := range summaries {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d/%d\t$%.4f\t%s\n", s.ID, s.Status, s.CurrentIteration, s.TotalIterations, s.TotalCost, truncate(s.Prompt, 48))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print sessions as JSON")

	return cmd
}

func newSessionsShowCmd(app *app) *cobra.Command {
	var mergesOnly bool

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Render the transcript of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := app.orchestrator.Get(cmd.Context(), domain.SessionID(args[0]))
			if err != nil {
				return err
			}

			rendered, err := app.renderer(state, renderOptions(mergesOnly))
			if err != nil {
				return fmt.Errorf("render session: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&mergesOnly, "merges-only", false, "Only show the chair's merged answers")

	return cmd
}

func newSessionsResumeCmd(app *app) *cobra.Command {
	var asJSON bool
	var mergesOnly bool

	cmd := &cobra.Command{
		Use:   "resume <session-id>",
		Short: "Resume a paused session from its stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := app.orchestrator.Get(cmd.Context(), domain.SessionID(args[0]))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			id, events, err := app.orchestrator.Resume(ctx, state.Config, state.ResumeState())
			if err != nil {
				return err
			}
			return followSession(ctx, cmd, app, id, events, asJSON, mergesOnly)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print wire events as JSON lines")
	cmd.Flags().BoolVar(&mergesOnly, "merges-only", false, "Only print the chair's merged answers")

	return cmd
}

func newSessionsCancelCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <session-id>",
		Short: "Cancel a session so it can no longer be resumed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.orchestrator.Cancel(cmd.Context(), domain.SessionID(args[0])); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "session %s cancelled\n", args[0])
			return err
		},
	}
}

func newSessionsDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.orchestrator.Delete(cmd.Context(), domain.SessionID(args[0])); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "session %s deleted\n", args[0])
			return err
		},
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
