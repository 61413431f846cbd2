package main

import (
	"context"
	"os"

	markov "github.com/MohammadGhaderi0/Diabetes-Markov-Model"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/cli"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a patient cohort",
	Long: `Simulates a cohort of patients and prints how many ended in each state.
Start states come from --start, or from --data when a patient file is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		report, _ := cmd.Flags().GetBool("report")
		trajectories, _ := cmd.Flags().GetBool("trajectories")
		if data, _ := cmd.Flags().GetString("data"); data != "" {
			cfg.Simulation.PatientData = data
		}

		if report && !jsonMode {
			tui.PrintBanner(os.Stdout, markov.Version)
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.Run(ctx, cfg, cli.RunOptions{
			JSON:         jsonMode,
			Report:       report,
			Trajectories: trajectories,
		}, os.Stdout, logger)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addSimulationFlags(runCmd)

	runCmd.Flags().Bool("json", false, "Print the cohort result as JSON")
	runCmd.Flags().Bool("trajectories", false, "Include every trajectory in JSON output")
	runCmd.Flags().Bool("report", false, "Print a markdown report (styled on terminals)")
	runCmd.Flags().String("data", "", "Patient CSV used to draw start states")

	// Make 'run' the default if no command is provided.
	rootCmd.RunE = runCmd.RunE
}
