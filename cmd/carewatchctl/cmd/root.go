// Package cmd contains the carewatchctl commands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/NasaVasa/carewatch/internal/app"
	"github.com/NasaVasa/carewatch/internal/config"
	"github.com/spf13/cobra"
)

var (
	userID string
	output string
)

var rootCmd = &cobra.Command{
	Use:   "carewatchctl",
	Short: "Carewatch alert engine admin tool",
	Long: `carewatchctl runs alert engine operations against the configured
database without starting the service.

Configuration is read from the environment and an optional .env file,
the same way the service reads it.

Examples:
  # Recompute alerts for one day
  carewatchctl recompute --user u1 --date 2024-05-01

  # Monthly summary
  carewatchctl summary --user u1 --month 2024-05

  # Critical vital alerts since a date, newest first
  carewatchctl alerts --user u1 --since 2024-05-01 --type vital --level critical --sort createdAt`,
	SilenceUsage: true,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "user id")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "json", "output format (json, plain)")
}

// withCore loads config, builds the engine and closes it after fn returns.
func withCore(ctx context.Context, fn func(core *app.Core) error) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	core, err := app.NewCore(ctx, cfg)
	if err != nil {
		return err
	}
	defer core.Close()
	return fn(core)
}

func requireUser() error {
	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

func printResult(w io.Writer, value any, plain func(io.Writer)) error {
	if output == "plain" && plain != nil {
		plain(w)
		return nil
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func stdout() io.Writer {
	return os.Stdout
}
