package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds flags shared across all commands.
type GlobalFlags struct {
	ConfigPath string
	LogLevel   string
}

var flags GlobalFlags

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wikichat",
		Short: "Chat with an encyclopedia article",
		Long: "wikichat loads an article on a topic of your choice and answers each question " +
			"with the sentence most similar to it. Type \"more\" for the whole passage.",
		SilenceUsage: true,
		RunE:         runChat,
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to YAML config file (default ./config.yaml or ~/.config/wikichat/config.yaml)")
	root.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newChatCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newAskCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
