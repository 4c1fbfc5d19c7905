package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/catalog/pidreg/internal/bootstrap"
	"github.com/catalog/pidreg/internal/infrastructure/config"
	"github.com/catalog/pidreg/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type cli struct {
	configPath string
	logLevel   string
	jsonOut    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "handlectl",
		Short: "Register Handle identifiers for catalog records",
		Long: `handlectl works directly on the registration database and the configured
handle servers. It reads the same config.toml as the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to config.toml (default: search . and /etc/pidreg)")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolVar(&c.jsonOut, "json", false, "print JSON")

	root.AddCommand(
		c.checkCmd(),
		c.registerCmd(),
		c.serversCmd(),
		c.recordsCmd(),
	)
	return root
}

// run opens the application for the duration of fn
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(&logger.Config{Level: c.logLevel, Format: logger.FormatConsole, Output: "stderr"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := bootstrap.New(ctx, cfg, log.With(zap.String("cmd", cmd.CommandPath())))
	if err != nil {
		return err
	}
	defer func() { _ = app.Close(context.Background()) }()

	return fn(ctx, app)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
