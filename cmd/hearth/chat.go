package main

import (
	"os"

	"github.com/aretw0/hearth"
	"github.com/aretw0/hearth/internal/cli"
	"github.com/aretw0/hearth/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant one classified turn per line",
	Long: `Reads turns typed as "<intent> [type=id ...]" from stdin, for example:

  close-door
  specify-location location=loc1
  turn-lights-on all

Type "reset" to forget the session and "quit" to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		ctx, stop := cli.WithShutdownSignals(cmd.Context())
		defer stop()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("log-level") {
			// Per-turn info lines would interleave with the conversation.
			cfg.Log.Level = "warn"
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		app, err := cli.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		opts := cli.ChatOptions{SessionID: sessionID, In: os.Stdin, Out: os.Stdout}
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, hearth.Version)
			opts.Render = tui.NewRenderer()
		}
		return cli.RunChat(ctx, app.Assistant, opts)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("session", "s", "chat", "Session id to talk in")
}
