package main

import (
	"fmt"
	"strings"

	markov "github.com/MohammadGhaderi0/Diabetes-Markov-Model"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of markov",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("markov version %s\n", strings.TrimSpace(markov.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
