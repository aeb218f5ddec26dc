package main

import (
	"errors"

	"github.com/spf13/cobra"
	"gwi.com/dalal-chat/internal/chat"
)

func newUploadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload PDF files; other files are skipped",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, logger, err := opts.oneShot(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer sess.Close()

			if sess.SelectFiles(args) == 0 {
				return errors.New("no PDF files among the given paths")
			}

			before := len(sess.State().Messages)
			if !sess.Upload() {
				return errors.New("upload did not start")
			}
			sess.Wait()

			state := sess.State()
			printMessages(cmd.OutOrStdout(), state.Messages[before:])
			if last := state.Messages[len(state.Messages)-1]; last.Content == chat.UploadFailedText {
				return errors.New("upload failed")
			}
			return nil
		},
	}
}
