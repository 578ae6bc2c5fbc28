// Command bridge runs the Slack bot that forwards commands, mentions and
// direct messages to the Dify gateway.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/devricklin/slack-dify-bridge/internal/biz/usecase"
	"github.com/devricklin/slack-dify-bridge/internal/conf"
	"github.com/devricklin/slack-dify-bridge/internal/data"
	"github.com/devricklin/slack-dify-bridge/internal/infra/dify"
	"github.com/devricklin/slack-dify-bridge/internal/infra/slack"
	"github.com/devricklin/slack-dify-bridge/internal/server"
	"github.com/devricklin/slack-dify-bridge/internal/service"
)

// Version is set at build time via -ldflags "-X main.Version=v1.0.0"
var Version = "dev"

var (
	envFile         string
	cannedResponses string
	debug           bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bridge",
		Short:         "Slack to Dify bridge",
		Long:          "Slack bot that answers slash commands, mentions and direct messages through the Dify API over Socket Mode.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", ".env file to load (default: ./.env if present)")
	cmd.Flags().StringVar(&cannedResponses, "canned-responses", "", "canned responses YAML (overrides CANNED_RESPONSES_PATH)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging and Slack client debug output")

	cmd.AddCommand(versionCmd())
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("slack-dify-bridge %s\n", Version)
		},
	}
}

func loadEnv() {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Warn("failed to load env file", "path", envFile, "error", err)
		}
		return
	}
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
}

func run() error {
	loadEnv()

	cfg := conf.LoadFromEnv()
	if debug {
		cfg.Debug = true
	}
	if cannedResponses != "" {
		cfg.CannedResponsesPath = cannedResponses
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		return err
	}

	entries, err := conf.LoadCannedResponses(cfg.CannedResponsesPath)
	if err != nil {
		logger.Error("failed to load canned responses", "error", err)
		return err
	}
	matcher, err := usecase.NewCannedMatcher(entries)
	if err != nil {
		return fmt.Errorf("build canned matcher: %w", err)
	}
	logger.Info("canned responses loaded", "count", matcher.Len())

	// Initialize clients
	slackClient, err := slack.NewClient(slack.Config{
		BotToken: cfg.Slack.BotToken,
		AppToken: cfg.Slack.AppToken,
		Debug:    cfg.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("create slack client: %w", err)
	}
	difyClient := dify.NewClient(cfg.Dify.APIKey,
		dify.WithBaseURL(cfg.Dify.BaseURL),
		dify.WithLogger(logger),
	)

	// Initialize repository layer
	repos := data.NewRepositories(slackClient.API(), difyClient, data.Options{
		DedupCapacity:     cfg.Dedup.Capacity,
		DedupTrimInterval: cfg.Dedup.TrimInterval,
		DefaultModel:      cfg.Model(),
		Logger:            logger,
	})

	// Initialize usecase and service layer
	answerUC := usecase.NewAnswerUsecase(repos.Gateway, matcher)
	router := service.NewRouter(repos.Chat, answerUC, repos.Dedup, repos.Preference, logger)
	router.SetDefaultModel(cfg.Model())

	srv := server.NewSlackServer(slackClient, router, repos.Dedup, logger)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting slack-dify-bridge",
		"version", Version,
		"dify", cfg.Dify.BaseURL,
		"default_model", cfg.Model())

	if err := srv.Start(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		return err
	}
	return nil
}
