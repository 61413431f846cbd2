package main

import (
	"os"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/cli"
	"github.com/spf13/cobra"
)

var expectedCmd = &cobra.Command{
	Use:   "expected",
	Short: "Print the exact state distribution at the horizon",
	Long:  `Computes row start of P^steps, the value a large cohort converges to.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		return cli.Expected(cmd.Context(), cfg, jsonMode, os.Stdout, logger)
	},
}

func init() {
	rootCmd.AddCommand(expectedCmd)
	addSimulationFlags(expectedCmd)
	expectedCmd.Flags().Bool("json", false, "Print the distribution as JSON")
}
