package main

import (
	"os"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/cli"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage the Redis model registry",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored models",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListModels(cmd.Context(), cfg, os.Stdout)
	},
}

var modelsPushCmd = &cobra.Command{
	Use:   "push <name>",
	Short: "Store the --model file under name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.PushModel(cmd.Context(), cfg, args[0], logger)
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd, modelsPushCmd)
}
