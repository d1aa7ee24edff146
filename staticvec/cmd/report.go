package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/staticvec/benchmarking"
	"github.com/sarchlab/staticvec/datarecording"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the comparison of a recorded run.",
	Long: "`report --db bench.sqlite3` prints the latest run in the " +
		"database. Use --run to select another run.",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.SilenceUsage = true

		path, _ := cmd.Flags().GetString("db")
		if path == "" {
			log.Fatalf("Error: --db is required.")
		}

		runID, _ := cmd.Flags().GetString("run")

		err := printReport(path, runID)
		if err != nil {
			log.Fatalf("Error printing report: %v", err)
		}
	},
}

func init() {
	reportCmd.Flags().String("db", "", "path of the recording database")
	reportCmd.Flags().String("run", "", "run ID, the latest run by default")
	rootCmd.AddCommand(reportCmd)
}

func printReport(path, runID string) error {
	_, err := os.Stat(path)
	if err != nil {
		return err
	}

	reader, err := datarecording.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	host, results, err := benchmarking.ReadResults(
		context.Background(), reader, runID)
	if err != nil {
		return err
	}

	return benchmarking.WriteReport(os.Stdout, host,
		benchmarking.Compare(results))
}
