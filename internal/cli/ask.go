package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wikichat/internal/logging"
	"wikichat/internal/service"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask TOPIC [QUESTION...]",
		Short: "Load a topic and answer questions non-interactively",
		Long: "ask runs a scripted conversation: the first argument is the topic, every further " +
			"argument is one turn (questions, \"more\" or \"bye\"). Each reply is printed on its own line.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.ConfigPath)
			if err != nil {
				return err
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
			session := factory.New()
			out := cmd.OutOrStdout()
			for i, utterance := range args {
				transcript, err := session.Handle(cmd.Context(), utterance)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "ChatBot >> %s\n", transcript[len(transcript)-1].Text)
				if i == 0 && session.Mode() == service.ModeAwaitingTopic {
					return fmt.Errorf("could not load topic %q", utterance)
				}
				if session.Mode() == service.ModeEnded {
					return nil
				}
			}
			return nil
		},
	}
}
