package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/rs/xid"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/staticvec/benchmarking"
	"github.com/sarchlab/staticvec/datarecording"
	"github.com/sarchlab/staticvec/instrumentation/tracing"
	"github.com/sarchlab/staticvec/monitoring"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure vec.Vector against builtin slices.",
	Long: "`bench` runs every workload of the plan on both containers, " +
		"records the results in a SQLite database, and prints a report.",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.SilenceUsage = true

		opts, err := benchOptionsFromFlags(cmd)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		err = runBench(opts)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Error running benchmark: %v", err)
		}

		atexit.Exit(0)
	},
}

func init() {
	addBenchFlags(benchCmd)
	rootCmd.AddCommand(benchCmd)
}

func addBenchFlags(cmd *cobra.Command) {
	cmd.Flags().String("db", "",
		"name of the recording database, without the .sqlite3 extension")
	cmd.Flags().Duration("benchtime", 0,
		"time to run each case (default from STATICVEC_BENCHTIME)")
	cmd.Flags().String("sizes", "",
		"comma separated element counts (default from STATICVEC_SIZES)")
	cmd.Flags().String("plan", "", "YAML plan file")
	cmd.Flags().Int("monitor-port", 0,
		"port of the monitoring server, 0 disables it")
	cmd.Flags().Bool("open", false, "open the monitoring page")
	cmd.Flags().Bool("trace", false,
		"record the events of the pending case buffer")
}

type benchOptions struct {
	db          string
	plan        benchmarking.Plan
	monitorPort int
	open        bool
	trace       bool
}

// benchOptionsFromFlags merges the settings. A plan file overrides the
// environment, and flags override both.
func benchOptionsFromFlags(cmd *cobra.Command) (benchOptions, error) {
	opts := benchOptions{
		db:          cfg.DB,
		plan:        benchmarking.DefaultPlan(),
		monitorPort: cfg.MonitorPort,
		open:        cfg.OpenBrowser,
		trace:       cfg.Trace,
	}

	if len(cfg.Sizes) > 0 {
		opts.plan.Sizes = cfg.Sizes
	}

	if cfg.BenchTime > 0 {
		opts.plan.BenchTime = cfg.BenchTime
	}

	flags := cmd.Flags()

	if planPath, _ := flags.GetString("plan"); planPath != "" {
		plan, err := benchmarking.LoadPlan(planPath)
		if err != nil {
			return opts, err
		}

		opts.plan = plan
	}

	if flags.Changed("db") {
		opts.db, _ = flags.GetString("db")
	}

	if flags.Changed("benchtime") {
		opts.plan.BenchTime, _ = flags.GetDuration("benchtime")
	}

	if flags.Changed("sizes") {
		str, _ := flags.GetString("sizes")

		sizes, err := parseSizes(str)
		if err != nil {
			return opts, err
		}

		opts.plan.Sizes = sizes
	}

	if flags.Changed("monitor-port") {
		opts.monitorPort, _ = flags.GetInt("monitor-port")
	}

	if flags.Changed("open") {
		opts.open, _ = flags.GetBool("open")
	}

	if flags.Changed("trace") {
		opts.trace, _ = flags.GetBool("trace")
	}

	return opts, opts.plan.Validate()
}

func parseSizes(str string) ([]int, error) {
	var sizes []int

	for _, field := range strings.Split(str, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q", field)
		}

		sizes = append(sizes, n)
	}

	if len(sizes) == 0 {
		return nil, errors.New("no sizes given")
	}

	return sizes, nil
}

func runBench(opts benchOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	recorder := datarecording.NewDataRecorder(opts.db)
	execRecorder := datarecording.NewExecRecorder(recorder)

	runID := xid.New().String()

	builder := benchmarking.MakeRunnerBuilder().
		WithRunID(runID).
		WithPlan(opts.plan).
		WithRecorder(recorder).
		WithLogger(log.New(os.Stderr, "", 0))

	var monitor *monitoring.Monitor
	if opts.monitorPort != 0 || opts.open {
		monitor = monitoring.NewMonitor().WithPortNumber(opts.monitorPort)
		builder = builder.WithMonitor(monitor)
	}

	if opts.trace {
		levels := tracing.NewLevelTracer()
		builder = builder.
			WithPendingHook(levels).
			WithPendingHook(tracing.NewBufferTracer(runID, recorder))

		if monitor != nil {
			monitor.RegisterLevelTracer(levels)
		}
	}

	runner := builder.Build()

	execRecorder.Start(datarecording.ExecInfo{
		Property: "Run ID",
		Value:    runID,
	})

	if monitor != nil {
		monitor.StartServer()

		if opts.open {
			err := monitor.OpenBrowser()
			if err != nil {
				log.Printf("Cannot open browser: %v", err)
			}
		}
	}

	results, runErr := runner.Run(ctx)

	execRecorder.End()

	err := benchmarking.WriteReport(os.Stdout, nil,
		benchmarking.Compare(results))
	if err != nil {
		return err
	}

	err = recorder.Close()
	if err != nil {
		return err
	}

	return runErr
}
