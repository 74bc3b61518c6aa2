package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/on-the-ground/effect_ive_cookbook/effects/log"
	"github.com/on-the-ground/effect_ive_cookbook/internal/config"
	"github.com/on-the-ground/effect_ive_cookbook/recipes"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	logLevel   string
	withRandom bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cookbook",
	Short: "Runs the effect cookbook recipes",
	Long: `cookbook runs small programs built on the effect handlers of this module:
structured interruption, racing, retrying, duration arithmetic and optional
services. Each subcommand runs one recipe; "all" runs every one of them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if withRandom {
			cfg.Recipes.Service.WithRandom = true
		}

		logger = log.NewLogfmtLogger(os.Stderr, log.ParseLevel(cfg.Log.Level))
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// recipeCmd wraps recipe in a subcommand.
func recipeCmd(named recipes.Named) *cobra.Command {
	return &cobra.Command{
		Use:   named.Name,
		Short: named.Short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecipes(cmd.Context(), cmd.OutOrStdout(), named)
		},
	}
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Runs every recipe in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecipes(cmd.Context(), cmd.OutOrStdout(), recipes.All...)
	},
}

func runRecipes(ctx context.Context, out io.Writer, named ...recipes.Named) error {
	for _, r := range named {
		if len(named) > 1 {
			fmt.Fprintf(out, "== %s\n", r.Name)
		}
		if err := runRecipe(ctx, out, r); err != nil {
			return fmt.Errorf("recipe %s: %w", r.Name, err)
		}
	}
	return nil
}

func runRecipe(ctx context.Context, out io.Writer, r recipes.Named) error {
	ctx, end := recipes.WithEnvironment(ctx, cfg, logger, out)
	defer end()
	return r.Recipe(ctx, cfg)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&withRandom, "with-random", false, "provide the Random service to the service recipe")

	for _, r := range recipes.All {
		rootCmd.AddCommand(recipeCmd(r))
	}
	rootCmd.AddCommand(allCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
