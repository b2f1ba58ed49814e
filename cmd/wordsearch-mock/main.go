package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/wordsearch/wordsearch/internal/config"
	"github.com/wordsearch/wordsearch/internal/mock"
)

type options struct {
	configPath string
	port       int
	tick       time.Duration
	verbose    bool
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
		Use:           "wordsearch-mock",
		Short:         "Serve a synthetic word search stream for development",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, opts.verbose)
		},
	}

	f := root.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to the YAML config file")
	f.IntVar(&opts.port, "port", 0, "port to listen on")
	f.DurationVar(&opts.tick, "tick", 0, "delay between emitted events")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	return root
}

func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Mock.Port = opts.port
	}
	if cmd.Flags().Changed("tick") {
		cfg.Mock.TickInterval = opts.tick
	}
	if err := cfg.ValidateMock(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config, verbose bool) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "mock",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := mock.NewServer(cfg.Mock, logger)
	addr := net.JoinHostPort(cfg.Mock.Host, strconv.Itoa(cfg.Mock.Port))
	logger.Info("serving synthetic corpus",
		"files", len(cfg.Mock.Files),
		"tick", cfg.Mock.TickInterval,
		"auth", cfg.Mock.Token != "",
	)
	return mock.ListenAndServe(ctx, addr, srv.Handler(), logger)
}
