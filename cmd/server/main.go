// Package main is the entry point for the gamebook API server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gamebook-api",
	Short: "Gamebook RPG turn-processing server",
	Long:  `gamebook-api runs interactive Fighting Fantasy style adventures: it classifies free-text player actions, resolves dice mechanics and serves AI-narrated turns over HTTP.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(cacheCmd)
}
