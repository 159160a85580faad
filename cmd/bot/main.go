package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jacobbrewer1/ticketeer/cmd/bot/config"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Discord support ticket bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context(), configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Connect to Discord and handle tickets (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runBot(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the store schema and indexes, then exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(cmd.Context(), configPath)
			},
		},
	)
	return rootCmd
}

func runBot(ctx context.Context, configPath string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := InitializeApp(ctx, c)
	if err != nil {
		return fmt.Errorf("error initializing application: %w", err)
	}
	defer cleanup()

	// The schema is created on every start so a fresh database works without running migrate.
	if err := dataaccess.Migrate(ctx, a.store); err != nil {
		return fmt.Errorf("error migrating store: %w", err)
	}

	a.l.Info("Starting application")
	if err := a.Run(ctx); err != nil {
		a.l.Error("Error running application", slog.String(logging.KeyError, err.Error()))
		return err
	}
	return nil
}

func runMigrate(ctx context.Context, configPath string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := c.ValidateStore(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := provideLogger(c)
	if err != nil {
		return err
	}

	store, cleanup, err := provideStore(ctx, l, c)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := dataaccess.Migrate(ctx, store); err != nil {
		return fmt.Errorf("error migrating store: %w", err)
	}

	l.Info("Store migrated", slog.String("driver", c.DBDriver))
	return nil
}
