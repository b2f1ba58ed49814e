package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/wordsearch/wordsearch/internal/app"
	"github.com/wordsearch/wordsearch/internal/client"
	"github.com/wordsearch/wordsearch/internal/config"
	"github.com/wordsearch/wordsearch/internal/history"
	"github.com/wordsearch/wordsearch/internal/logging"
	"github.com/wordsearch/wordsearch/internal/session"
)

// Version is set at build time.
var Version = "dev"

// historyRetain bounds the history database; older searches are pruned at
// startup.
const historyRetain = 500

type options struct {
	configPath string
	baseURL    string
	transport  string
	token      string
	logLevel   string
	noHistory  bool
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:           "wordsearch",
		Short:         "Search a remote file corpus and watch progress live",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")
	f := root.Flags()
	f.StringVar(&opts.configPath, "config", defaultConfigPath(), "path to the YAML config file")
	f.StringVar(&opts.baseURL, "url", "", "base URL of the search server")
	f.StringVar(&opts.transport, "transport", "", "search stream transport: sse or websocket")
	f.StringVar(&opts.token, "token", "", "bearer token for the search server")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.BoolVar(&opts.noHistory, "no-history", false, "do not read or record search history")
	return root
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Server.BaseURL = opts.baseURL
	}
	if flags.Changed("transport") {
		cfg.Server.Transport = opts.transport
	}
	if flags.Changed("token") {
		cfg.Server.Token = opts.token
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if opts.noHistory {
		cfg.History.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	fl, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() {
		if closeErr := fl.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "failed to close logger: %v\n", closeErr)
		}
	}()
	logger := fl.Logger.With("server", cfg.Server.BaseURL, "transport", cfg.Server.Transport)

	dialer, err := client.NewDialer(cfg.Server.Transport, cfg.Server.BaseURL, cfg.Server.Token)
	if err != nil {
		return err
	}

	notes := app.NewNoteFeed(64)
	ctrl := session.NewController(dialer,
		session.WithLogger(logger),
		session.WithNotes(notes.Push),
	)
	defer ctrl.Close()

	deps := app.Deps{
		Search:       ctrl,
		Files:        client.NewHTTPClient(cfg.Server.BaseURL, cfg.Server.Token, cfg.Server.RequestTimeout),
		HistoryLimit: cfg.History.Limit,
		Notes:        notes,
		Logger:       logger,
		Server:       cfg.Server.BaseURL,
		Transport:    cfg.Server.Transport,
	}

	if cfg.History.Enabled {
		store, err := openHistory(cfg.History.Path, logger)
		if err != nil {
			// History is optional; searching works without it.
			logger.Warn("search history disabled", "err", err)
		} else {
			defer store.Close()
			deps.History = store
		}
	}

	logger.Info("starting word search client", "version", Version)
	p := tea.NewProgram(app.New(deps), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	logger.Info("word search client exited")
	return nil
}

func openHistory(path string, logger *log.Logger) (*history.Store, error) {
	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}
	if n, err := store.Prune(historyRetain); err != nil {
		logger.Warn("prune search history", "err", err)
	} else if n > 0 {
		logger.Debug("pruned search history", "removed", n)
	}
	return store, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".wordsearch", "config.yaml")
}
