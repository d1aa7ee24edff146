// Package cmd provides the command-line interface of staticvec.
package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/staticvec/config"
)

// cfg holds the settings read from .env and the environment. Flags override
// them.
var cfg config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "staticvec",
	Short: "staticvec benchmarks and demonstrates fixed-capacity vectors.",
	Long: `staticvec measures vec.Vector against preallocated builtin ` +
		`slices, records the results in SQLite, and prints comparison ` +
		`reports. Settings are read from a .env file and STATICVEC_* ` +
		`environment variables; flags take precedence.`,
}

func init() {
	cobra.OnInitialize(loadConfig)
}

func loadConfig() {
	var err error

	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
