package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/pkg/config"
	"github.com/FACorreiaa/go-tripplanner/internal/pkg/logger"
)

const serviceName = "trip-planner"

// Version is set at build time with -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "tripplanner",
	Short: "City trip planner",
	Long: `tripplanner searches famous places in a city, collects them into an
itinerary and routes the itinerary through the travel backend.

Run "tripplanner serve" for the HTTP API, or use the one-shot commands
to query the backend from a terminal.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	envFile    string
	logLevel   string
	backendURL string

	cfg *config.Config
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default from LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend-url", "", "travel backend base URL (default from PLANNER_BACKEND_URL)")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if backendURL != "" {
		loaded.Backend.BaseURL = backendURL
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	cfg = loaded

	return logger.Init(logger.ParseLevel(cfg.LogLevel),
		zap.String("service", serviceName),
		zap.String("version", Version),
		zap.String("command", cmd.Name()))
}
