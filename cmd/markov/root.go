package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/cli"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "markov",
	Short: "Markov is a diabetes progression simulator",
	Long: `Markov simulates disease-state progression for a cohort of patients with a
discrete-time Markov chain over Controlled, Uncontrolled, Severe and Death states.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("model") {
			loaded.Model.Path, _ = cmd.Flags().GetString("model")
		}
		if cmd.Flags().Changed("model-name") {
			loaded.Model.Name, _ = cmd.Flags().GetString("model-name")
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Logging.Level, _ = cmd.Flags().GetString("log-level")
		}
		applySimulationFlags(cmd, loaded)

		cfg = loaded
		logger = cli.NewLogger(cfg.Logging.Level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "markov.yaml", "Path to the configuration file (ignored if missing)")
	rootCmd.PersistentFlags().StringP("model", "m", "", "Transition model file (.csv, .yaml, .json, .xlsx)")
	rootCmd.PersistentFlags().String("model-name", "", "Name of a model stored in the Redis registry")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// addSimulationFlags registers the flags shared by commands that simulate.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("patients", "n", 0, "Number of patients in the cohort")
	cmd.Flags().StringP("start", "s", "", "Start state (label or index)")
	cmd.Flags().String("seed", "", "Random seed for reproducible runs")
	cmd.Flags().Int("steps", 0, "Simulation horizon in steps (months)")
	cmd.Flags().IntP("workers", "w", 0, "Goroutines used to simulate the cohort")
}

func applySimulationFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Lookup("patients") == nil {
		return
	}
	if flags.Changed("patients") {
		c.Simulation.Patients, _ = flags.GetInt("patients")
	}
	if flags.Changed("start") {
		c.Simulation.Start, _ = flags.GetString("start")
	}
	if flags.Changed("seed") {
		c.Simulation.Seed, _ = flags.GetString("seed")
	}
	if flags.Changed("steps") {
		c.Simulation.Steps, _ = flags.GetInt("steps")
	}
	if flags.Changed("workers") {
		c.Simulation.Workers, _ = flags.GetInt("workers")
	}
}
