package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gwi.com/dalal-chat/internal/chat"
)

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question about the uploaded documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if strings.TrimSpace(question) == "" {
				return errors.New("question must not be empty")
			}

			sess, logger, err := opts.oneShot(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer sess.Close()

			if err := sess.RefreshStatus(cmd.Context()); err != nil {
				return fmt.Errorf("failed to check status: %w", err)
			}
			if !sess.State().Status.Ready {
				return errors.New(chat.InputPlaceholder(false))
			}

			before := len(sess.State().Messages)
			if !sess.Ask(question) {
				return errors.New("question was not sent")
			}
			sess.Wait()

			// Skip the echoed question.
			answers := sess.State().Messages[before+1:]
			printMessages(cmd.OutOrStdout(), answers)
			for _, m := range answers {
				if m.Role != chat.RoleAssistant {
					return errors.New("no answer")
				}
			}
			return nil
		},
	}
}
