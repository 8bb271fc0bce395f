// Package cli implements the veloratio command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/veloratio/internal/advice"
	"github.com/sprite-ai/veloratio/internal/config"
	"github.com/sprite-ai/veloratio/internal/logging"
)

var (
	// appConfig and coach are set up before any subcommand runs.
	appConfig *config.Config
	coach     *advice.Adapter
)

var rootCmd = &cobra.Command{
	Use:   "veloratio",
	Short: "Bicycle gear, speed and power calculator",
	Long: `veloratio computes speed, gear inches and estimated rider power for a
chainring/cassette drivetrain, classifies the gear choice, and can ask a
coaching service for a short riding tip.

Settings are read from .veloratio.yaml (searched upward from the working
directory), then .env and the environment. GEMINI_API_KEY enables coaching.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if coach != nil {
			return coach.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a config file (default: search for "+config.FileName+")")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("offline", false, "use built-in coaching tips instead of Gemini")

	rootCmd.AddCommand(calcCmd, rideCmd, serveCmd, versionCmd)
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := logging.Setup(cfg.Log.Level, *cfg.Log.NoColor); err != nil {
		return err
	}
	if cfg.Path != "" {
		slog.Debug("loaded config", "path", cfg.Path)
	}

	coach = newCoach(cmd.Context(), cfg)
	appConfig = cfg
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	config.LoadDotEnv()

	var cfg *config.Config
	var err error
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, fmt.Errorf("getting working directory: %w", wdErr)
		}
		cfg, err = config.Load(wd)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		cfg.Advice.Provider = config.ProviderOffline
	}
	if cfg.Log.NoColor == nil {
		noColor := false
		cfg.Log.NoColor = &noColor
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newCoach builds the advice adapter for the configured provider. A missing
// Gemini key degrades to the offline tips rather than failing.
func newCoach(ctx context.Context, cfg *config.Config) *advice.Adapter {
	opts := []advice.Option{
		advice.WithTimeout(cfg.AdviceTimeout()),
		advice.WithCache(cfg.AdviceCacheSize()),
	}

	switch cfg.Advice.Provider {
	case config.ProviderNone:
		return advice.NewAdapter(nil, opts...)
	case config.ProviderOffline:
		return advice.NewAdapter(advice.NewOfflineGenerator(), opts...)
	}

	gen, err := advice.NewGeminiClient(ctx, cfg.Advice.APIKey, cfg.Advice.Model)
	if err != nil {
		if errors.Is(err, advice.ErrMissingAPIKey) {
			slog.Warn("no API key set, using offline coaching tips", "hint", "set GEMINI_API_KEY")
		} else {
			slog.Warn("gemini unavailable, using offline coaching tips", "err", err)
		}
		return advice.NewAdapter(advice.NewOfflineGenerator(), opts...)
	}
	return advice.NewAdapter(gen, opts...)
}
