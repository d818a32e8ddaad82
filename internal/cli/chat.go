package cli

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"wikichat/internal/config"
	"wikichat/internal/logging"
	"wikichat/internal/tui"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive terminal chat",
		Args:  cobra.NoArgs,
		RunE:  runChat,
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	// the terminal belongs to the UI, so logs go to a file
	if cfg.Log.File == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		cfg.Log.File = filepath.Join(dir, "wikichat.log")
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	factory, err := buildFactory(cfg, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(tui.New(factory.New()), tea.WithAltScreen()).Run()
	return err
}
