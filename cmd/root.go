package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "council",
		Short:         "LLM council: ask several models, let a chair merge their answers",
		Long:          "council sends one prompt to a council of LLM providers, has a chair model merge the answers, and refines the merged answer over feedback rounds. Run it in-process with `council run` or serve the streaming HTTP API with `council serve`.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return app.Close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newRunCmd(app),
		newSessionsCmd(app),
		newProvidersCmd(app),
		newKeysCmd(app),
		newArchetypesCmd(app),
		newTemplatesCmd(app),
	)

	return rootCmd
}
