package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newArchetypesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archetypes",
		Short: "Inspect personality archetypes for council members",
	}

	cmd.AddCommand(newArchetypesListCmd(app), newArchetypesShowCmd(app))

	return cmd
}

type archetypeOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt,omitempty"`
}

func newArchetypesListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in and user archetypes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			archetypes := app.archetypes.List()

			if asJSON {
				out := make([]archetypeOutput, 0, len(archetypes))
				for _, archetype := range archetypes {
					out = append(out, archetypeOutput{ID: archetype.ID, Name: archetype.Name, Description: archetype.Description})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
			for _, archetype := range archetypes {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", archetype.ID, archetype.Name, archetype.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print archetypes as JSON")

	return cmd
}

func newArchetypesShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the system prompt of an archetype",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archetype, ok := app.archetypes.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown archetype %q", args[0])
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n%s\n\n%s\n", archetype.Name, archetype.ID, archetype.Description, archetype.PromptFragment)
			return err
		},
	}
}
