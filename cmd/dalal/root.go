package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gwi.com/dalal-chat/internal/chat"
	"gwi.com/dalal-chat/internal/config"
	"gwi.com/dalal-chat/internal/logging"
	"gwi.com/dalal-chat/internal/service"
	"gwi.com/dalal-chat/internal/session"
	"gwi.com/dalal-chat/internal/tui"
)

const interactiveLogFile = "dalal.log"

type options struct {
	serviceURL   string
	pollInterval time.Duration
	logFile      string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "dalal",
		Short: "Chat with your PDFs from the terminal",
		Long: `Dalal uploads PDF documents to a document chat service, shows when the
service is ready, and lets you ask questions about the uploaded documents.

Without a subcommand it opens the interactive chat view.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd, true)
			if err != nil {
				return err
			}
			defer logger.Sync()

			client := service.NewClient(cfg.ServiceURL, cfg.RequestTimeout, logger)
			sess := session.New(client,
				session.WithPollInterval(cfg.PollInterval),
				session.WithGreeting(cfg.Greeting),
				session.WithLogger(logger),
			)
			sess.Start(cmd.Context())
			defer sess.Close()

			logger.Info("Chat view started", zap.String("service", cfg.ServiceURL))
			return tui.Run(sess, cfg.ServiceURL)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.serviceURL, "service-url", "", "Base URL of the document chat service (env DALAL_SERVICE_URL)")
	flags.DurationVar(&opts.pollInterval, "poll-interval", 0, "How often to poll readiness (env POLL_INTERVAL)")
	flags.StringVar(&opts.logFile, "log-file", "", "Log file; the chat view defaults to "+interactiveLogFile+" (env LOG_FILE)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (env LOG_LEVEL)")

	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newUploadCmd(opts))
	rootCmd.AddCommand(newAskCmd(opts))

	return rootCmd
}

// load reads the environment, applies flag overrides and builds the logger.
// The chat view owns the terminal, so it never logs to stderr.
func (o *options) load(cmd *cobra.Command, interactive bool) (config.Config, *zap.Logger, error) {
	if _, err := config.LoadConfig(); err != nil {
		return config.Config{}, nil, err
	}
	cfg := config.AppConfig

	flags := cmd.Flags()
	if flags.Changed("service-url") {
		cfg.ServiceURL = o.serviceURL
	}
	if flags.Changed("poll-interval") {
		cfg.PollInterval = o.pollInterval
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if interactive && cfg.LogFile == "" {
		cfg.LogFile = interactiveLogFile
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// oneShot builds a session for a single command: no poller, no greeting.
func (o *options) oneShot(cmd *cobra.Command) (*session.Session, *zap.Logger, error) {
	cfg, logger, err := o.load(cmd, false)
	if err != nil {
		return nil, nil, err
	}
	client := service.NewClient(cfg.ServiceURL, cfg.RequestTimeout, logger)
	sess := session.New(client, session.WithPollInterval(cfg.PollInterval), session.WithLogger(logger))
	return sess, logger, nil
}

func printMessages(w io.Writer, msgs []chat.Message) {
	for _, m := range msgs {
		switch m.Role {
		case chat.RoleUser:
			fmt.Fprintf(w, "> %s\n", m.Content)
		case chat.RoleAssistant:
			fmt.Fprintln(w, m.Content)
			if m.Source != "" {
				fmt.Fprintf(w, "Source: %s\n", chat.SourceLabel(m.Source))
			}
		default:
			fmt.Fprintf(w, "[%s] %s\n", m.Role, m.Content)
		}
	}
}
