package main

import (
	"os"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the model as a Mermaid state diagram",
	Long:  `Outputs a Mermaid diagram (stateDiagram-v2) with transition probabilities on the edges.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		overlay, _ := cmd.Flags().GetBool("overlay")
		return cli.Graph(cmd.Context(), cfg, overlay, os.Stdout, logger)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addSimulationFlags(graphCmd)
	graphCmd.Flags().Bool("overlay", false, "Highlight one simulated trajectory")
}
