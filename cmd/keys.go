package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/spf13/cobra"
)

func newKeysCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage provider API keys",
	}

	cmd.AddCommand(newKeysSetCmd(app), newKeysRemoveCmd(app))

	return cmd
}

func newKeysSetCmd(app *app) *cobra.Command {
	var provider string
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store an API key for a provider",
		Long:  "Store an API key for a provider in the configured secret backend. Pass --value - to read the key from stdin.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := domain.ParseProvider(provider)
			if err != nil {
				return err
			}

			key := value
			if key == "-" {
				key, err = readSecretLine(cmd)
				if err != nil {
					return err
				}
			}

			if err := app.providers.SetAPIKey(cmd.Context(), parsed, key); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "api key stored for %s\n", parsed)
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider (openai|anthropic|google|grok)")
	cmd.Flags().StringVar(&value, "value", "", "API key, or - to read it from stdin")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newKeysRemoveCmd(app *app) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored API key of a provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := domain.ParseProvider(provider)
			if err != nil {
				return err
			}

			if err := app.providers.RemoveAPIKey(cmd.Context(), parsed); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "api key removed for %s\n", parsed)
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider")
	_ = cmd.MarkFlagRequired("provider")

	return cmd
}

func readSecretLine(cmd *cobra.Command) (string, error) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read api key from stdin: %w", err)
		}
		return "", errors.New("read api key from stdin: no input")
	}
	return strings.TrimSpace(scanner.Text()), nil
}
