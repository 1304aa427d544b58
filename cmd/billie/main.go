// Package main provides the billie CLI: it overlays accessibility violations
// on live pages and reports them.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "billie",
	Short:         "Accessibility violation overlay",
	Long:          "billie runs axe-core against web pages, marks every violating element on the page, and shows the details and fixes for a violation when its marker is clicked.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a billie config file (overrides BILLIE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, or error")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var found *violationsFoundError
		if errors.As(err, &found) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
