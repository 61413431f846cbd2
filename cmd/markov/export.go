package main

import (
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/cli"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the model to a .csv, .yaml, .json or .xlsx file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Export(cmd.Context(), cfg, args[0], logger)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
