package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is injected at build time via ldflags.
var Version = "development"

var rootCmd = &cobra.Command{
	Use:   "babelbot",
	Short: "Multilingual conversational assistant service",
	RunE: func(cmd *cobra.Command, args []string) error {
		runServe()
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bot service",
	RunE: func(cmd *cobra.Command, args []string) error {
		runServe()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("babelbot %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
