package main

import (
	"os"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/cli"
	"github.com/spf13/cobra"
)

var statesCmd = &cobra.Command{
	Use:   "states [patients.csv]",
	Short: "Estimate the initial state distribution from patient data",
	Long: `Cleans a patient CSV (zero Glucose, Insulin, BMI, BloodPressure or SkinThickness
drops the row) and classifies glucose into Controlled (<140), Uncontrolled (<200) or Severe.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 0 {
			path = args[0]
		}
		return cli.States(cmd.Context(), cfg, path, os.Stdout, logger)
	},
}

func init() {
	rootCmd.AddCommand(statesCmd)
}
