package main

// Must be first import - fixes Warp terminal delay before lipgloss loads
import _ "github.com/wahlandcase/attuned.audit/internal/termfix"

import (
	"fmt"
	"os"
	"time"

	"github.com/wahlandcase/attuned.audit/internal/api"
	"github.com/wahlandcase/attuned.audit/internal/app"
	"github.com/wahlandcase/attuned.audit/internal/config"
	"github.com/wahlandcase/attuned.audit/internal/git"
	"github.com/wahlandcase/attuned.audit/internal/logging"
	"github.com/wahlandcase/attuned.audit/internal/recent"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dryRunLatency keeps the spinner visible in --dry-run
const dryRunLatency = 600 * time.Millisecond

var (
	dryRun   bool
	apiURL   string
	repoURL  string
	logLevel string
	logFile  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "attaudit",
		Short:        "TUI for AI-assisted audits of GitHub commits",
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Use an in-memory backend with fabricated data")
	rootCmd.Flags().StringVar(&apiURL, "api-url", "", "Backend base URL including /api (overrides config)")
	rootCmd.Flags().StringVar(&repoURL, "repo", "", "Repository URL to prefill")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", `Log file path, "-" for stderr`)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}

	logger, err := logging.NewFactory().CreateLogger(logging.Level(cfg.Logging.Level), logging.Format(cfg.Logging.Format), cfg.LogFile())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	var backend api.Backend
	if dryRun {
		backend = api.NewDryRun(dryRunLatency)
	} else {
		backend = api.NewClient(cfg.API.BaseURL, cfg.Timeout(), logger.Named("api"))
	}

	recentsPath, err := recent.DefaultPath()
	if err != nil {
		logger.Warn("recent repositories will not persist", zap.Error(err))
	}
	recents := recent.Open(recentsPath)

	opts := app.Options{DryRun: dryRun, RepoURL: repoURL}
	if cwd, err := os.Getwd(); err == nil {
		if checkout, ok := git.Detect(cwd); ok {
			opts.Checkout = &checkout
			logger.Debug("local checkout detected", zap.String("repo", checkout.RepoURL), zap.String("head", checkout.Head.ShortSHA()))
		}
	}

	logger.Info("starting",
		zap.String("api", cfg.API.BaseURL),
		zap.Bool("dry_run", dryRun),
	)

	model := app.New(cfg, backend, recents, logger, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
