package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/bnema/llm-council/internal/application"
	"github.com/bnema/llm-council/internal/domain"
	"github.com/spf13/cobra"
)

func newTemplatesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Save and reuse council member lineups",
	}

	cmd.AddCommand(
		newTemplatesListCmd(app),
		newTemplatesShowCmd(app),
		newTemplatesSaveCmd(app),
		newTemplatesDeleteCmd(app),
	)

	return cmd
}

type templateMemberOutput struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Role      string `json:"role,omitempty"`
	Archetype string `json:"archetype,omitempty"`
	IsChair   bool   `json:"is_chair"`
}

type templateOutput struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Members     []templateMemberOutput `json:"members"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func toTemplateOutput(template domain.CouncilTemplate) templateOutput {
	out := templateOutput{
		ID:          string(template.ID),
		Name:        template.Name,
		Description: template.Description,
		Members:     make([]templateMemberOutput, 0, len(template.Members)),
		UpdatedAt:   template.UpdatedAt,
	}
	for _, member := range template.Members {
		out.Members = append(out.Members, templateMemberOutput{
			ID:        string(member.ID),
			Provider:  string(member.Provider),
			Model:     member.Model,
			Role:      member.Role,
			Archetype: member.Archetype,
			IsChair:   member.IsChair,
		})
	}
	return out
}

func writeJSONOutput(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTemplatesListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved templates, most recently updated first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			templates, err := app.templates.ListTemplates(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				out := make([]templateOutput, 0, len(templates))
				for _, template := range templates {
					out = append(out, toTemplateOutput(template))
				}
				return writeJSONOutput(cmd.OutOrStdout(), out)
			}

			if len(templates) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No templates saved.")
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tMEMBERS\tCHAIR")
			for _, template := range templates {
				chair := ""
				if member, ok := domain.Chair(template.Members); ok {
					chair = fmt.Sprintf("%s:%s", member.Provider, member.Model)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", template.ID, truncate(template.Name, 32), len(template.Members), chair)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print templates as JSON")

	return cmd
}

func newTemplatesShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <template-id>",
		Short: "Print a saved template as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			template, err := app.templates.GetTemplate(cmd.Context(), domain.TemplateID(args[0]))
			if err != nil {
				return err
			}
			return writeJSONOutput(cmd.OutOrStdout(), toTemplateOutput(template))
		},
	}
}

func newTemplatesSaveCmd(app *app) *cobra.Command {
	var (
		id          string
		name        string
		description string
		members     []string
		chair       string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a member lineup as a template, or replace one with --id",
		Example: `  council templates save --name "Review board" \
    --member openai:gpt-4o:Chair:synthesizer \
    --member ollama:llama3.2:Critic:critic`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lineup, err := parseMembers(members, chair)
			if err != nil {
				return err
			}
			input := application.TemplateInput{Name: name, Description: description, Members: lineup}

			var template domain.CouncilTemplate
			if id != "" {
				template, err = app.templates.UpdateTemplate(cmd.Context(), domain.TemplateID(id), input)
			} else {
				template, err = app.templates.CreateTemplate(cmd.Context(), input)
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved template %s (%s)\n", template.ID, template.Name)
			return err
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Replace the template with this id")
	cmd.Flags().StringVar(&name, "name", "", "Template name")
	cmd.Flags().StringVar(&description, "description", "", "Short description")
	cmd.Flags().StringArrayVar(&members, "member", nil, "Council member as provider:model[:role[:archetype]] (repeatable)")
	cmd.Flags().StringVar(&chair, "chair", "1", "Chair as a 1-based member index or member id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("member")

	return cmd
}

func newTemplatesDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <template-id>",
		Short: "Delete a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.templates.DeleteTemplate(cmd.Context(), domain.TemplateID(args[0])); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted template %s\n", args[0])
			return err
		},
	}
}
