package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gwi.com/dalal-chat/internal/chat"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the service is ready and which files it processed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, logger, err := opts.oneShot(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer sess.Close()

			if err := sess.RefreshStatus(cmd.Context()); err != nil {
				return fmt.Errorf("failed to check status: %w", err)
			}

			status := sess.State().Status
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, chat.ReadinessLabel(status.Ready))
			if len(status.ProcessedFiles) == 0 {
				fmt.Fprintln(out, "No files processed")
				return nil
			}
			fmt.Fprintln(out, "Processed Files:")
			for _, name := range status.ProcessedFiles {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
}
