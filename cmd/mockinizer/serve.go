package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mockinizer/mockinizer/pkg/config"
	"github.com/mockinizer/mockinizer/pkg/engine"
	"github.com/mockinizer/mockinizer/pkg/logging"
	"github.com/mockinizer/mockinizer/pkg/requestlog"
)

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	configPath string
	port       int
	https      bool
	logLevel   string
	logFormat  string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve mocks from a config file until SIGINT/SIGTERM",
		Example: `  # Serve mocks.yaml on the default port
  mockinizer serve --config mocks.yaml

  # Serve a whole directory tree of mock files over HTTPS
  mockinizer serve --config 'mocks/**/*.yaml' --https --port 8443`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "mock file or glob pattern (required)")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "port to listen on (default from MOCKINIZER_PORT, else 34567)")
	cmd.Flags().BoolVar(&flags.https, "https", false, "serve TLS with a self-signed certificate")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "log format: text, json")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runServe(cmd *cobra.Command, flags serveFlags) error {
	cfg, err := config.ServerConfigFromEnv()
	if err != nil {
		return err
	}

	// Flags override the environment.
	if cmd.Flags().Changed("port") {
		cfg.Port = flags.port
	}
	if cmd.Flags().Changed("https") {
		cfg.HTTPS = flags.https
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.LogFormat = flags.logFormat
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
	})

	table, err := config.LoadGlob(flags.configPath)
	if err != nil {
		return err
	}
	log.Info("loaded mock table", "entries", table.Len(), "config", flags.configPath)

	var serverOpts []engine.ServerOption
	serverOpts = append(serverOpts, engine.WithLogger(log))
	if cfg.HTTPS {
		serverOpts = append(serverOpts, engine.WithTLS())
	}

	reg := engine.NewRegistry(
		engine.WithRegistryLogger(log),
		engine.WithRequestLog(requestlog.NewMemoryStore(cfg.MaxLogEntries)),
	)
	reg.Init(engine.NewServer(serverOpts...), table)

	if err := reg.Start(cfg.Port); err != nil {
		return fmt.Errorf("starting mock server: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "mockinizer serving %d mocks on %s\n", table.Len(), reg.Server().URL())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutting down", "signal", sig.String())

	return reg.ShutDown()
}
