package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newProvidersCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Inspect LLM providers",
	}

	cmd.AddCommand(newProvidersListCmd(app))

	return cmd
}

type providerOutput struct {
	Name            string   `json:"name"`
	Configured      bool     `json:"configured"`
	DefaultModel    string   `json:"default_model"`
	AvailableModels []string `json:"available_models"`
	BaseURL         string   `json:"base_url,omitempty"`
}

func newProvidersListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List providers and whether they are configured",
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := app.providers.ListProviders(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				out := make([]providerOutput, 0, len(infos))
				for _, info := range infos {
					models := info.AvailableModels
					if models == nil {
						models = []string{}
					}
					out = append(out, providerOutput{
						Name:            string(info.Name),
						Configured:      info.Configured,
						DefaultModel:    info.DefaultModel,
						AvailableModels: models,
						BaseURL:         info.BaseURL,
					})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "\tPROVIDER\tDEFAULT MODEL\tMODELS")
			for _, info := range infos {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", configuredMarker(info.Configured), info.Name, info.DefaultModel, strings.Join(info.AvailableModels, ", "))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print providers as JSON")

	return cmd
}

func configuredMarker(configured bool) string {
	if configured {
		return color.New(color.FgGreen).Sprint("✓")
	}
	return color.New(color.FgRed).Sprint("✗")
}
