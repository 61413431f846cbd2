package main

import (
	"context"
	"os"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes the simulator as a JSON API with Prometheus metrics at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		return cli.Serve(ctx, cfg, os.Stdout, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addSimulationFlags(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
