package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"beholder/internal/logging"
	"beholder/internal/notify"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	var cardRef string

	cmd := &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test message through the configured collaborators",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sink := notify.New(cfg, logging.Discard())
			sent := false

			if cfg.Chat.WebhookURL != "" {
				if err := sink.PostChatMessage(cmd.Context(), cfg.Chat.Channel, "Beholder test notification"); err != nil {
					return fmt.Errorf("send test chat message: %w", err)
				}
				fmt.Fprintln(out, "Test chat message sent")
				sent = true
			}

			if cardRef != "" {
				if !cfg.TrackerEnabled() {
					fmt.Fprintln(out, "Tracker disabled; skipping card comment")
				} else {
					if err := sink.PostComment(cmd.Context(), cardRef, "Beholder test notification"); err != nil {
						return fmt.Errorf("post test comment: %w", err)
					}
					fmt.Fprintf(out, "Test comment posted on card %s\n", cardRef)
					sent = true
				}
			}

			if !sent {
				fmt.Fprintln(out, "No collaborators configured; nothing to test")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cardRef, "card", "", "Tracker card to post a test comment on")
	return cmd
}
