package main

import (
	"os"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the transition model",
	Long: `Loads the model and reports every problem with the matrix, labels or terminal states,
then warns about states unreachable from --start or unable to reach a terminal state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		return cli.Validate(cmd.Context(), cfg, strict, os.Stdout, logger)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addSimulationFlags(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat unreachable or trapped states as errors")
}
