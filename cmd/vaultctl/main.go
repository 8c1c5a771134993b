package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/securevault/vaultctl/internal/client/cli"
	"github.com/securevault/vaultctl/internal/client/config"
	"github.com/securevault/vaultctl/internal/logging"
)

var (
	serverEndpoint string
	tokenFile      string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "vaultctl",
	Short: "Terminal client for the SecureVault PII vault",
	Long: `vaultctl is an interactive client for the SecureVault backend.

It stores personal data fields encrypted on the server and decrypts them
on demand, for the current run only. Admin accounts additionally get a
user directory with masked record previews.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if serverEndpoint != "" {
			cfg.ServerEndpoint = serverEndpoint
		}
		if tokenFile != "" {
			cfg.TokenFile = tokenFile
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel(cfg.LogLevel),
		})))

		app := cli.NewApp(cfg, logger)
		app.Run(cmd.Context())
		return nil
	},
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverEndpoint, "server", "", "backend base URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "session token path (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
