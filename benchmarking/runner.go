package benchmarking

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/rs/xid"
	"github.com/sarchlab/staticvec/datarecording"
	"github.com/sarchlab/staticvec/instrumentation/hooking"
	"github.com/sarchlab/staticvec/monitoring"
	"github.com/sarchlab/staticvec/queueing"
)

// ResultTable is the table a Runner records results into.
const ResultTable = "bench_result"

// Result is the measurement of one case.
type Result struct {
	RunID       string
	Workload    string
	Container   string
	Size        int
	Iterations  int
	NsPerOp     float64
	NsPerItem   float64
	AllocsPerOp int64
	BytesPerOp  int64
}

// Runner measures every case of a plan.
type Runner struct {
	runID    string
	plan     Plan
	measurer Measurer
	recorder datarecording.DataRecorder
	monitor  *monitoring.Monitor
	logger   *log.Logger
	hooks    []hooking.Hook
	hostInfo func(runID string) (Host, error)
}

// RunnerBuilder can build runners.
type RunnerBuilder struct {
	runID    string
	plan     Plan
	measurer Measurer
	recorder datarecording.DataRecorder
	monitor  *monitoring.Monitor
	logger   *log.Logger
	hooks    []hooking.Hook
}

// MakeRunnerBuilder returns a builder with the default plan.
func MakeRunnerBuilder() RunnerBuilder {
	return RunnerBuilder{
		plan: DefaultPlan(),
	}
}

// WithRunID sets the ID results are tagged with. A unique ID is generated if
// none is given.
func (b RunnerBuilder) WithRunID(id string) RunnerBuilder {
	b.runID = id
	return b
}

// WithPlan sets the plan to run.
func (b RunnerBuilder) WithPlan(p Plan) RunnerBuilder {
	b.plan = p
	return b
}

// WithMeasurer sets the measurer. By default, a BenchmarkMeasurer with the
// plan's bench time is used.
func (b RunnerBuilder) WithMeasurer(m Measurer) RunnerBuilder {
	b.measurer = m
	return b
}

// WithRecorder sets where the host and the results are recorded.
func (b RunnerBuilder) WithRecorder(r datarecording.DataRecorder) RunnerBuilder {
	b.recorder = r
	return b
}

// WithMonitor reports the progress, the pending cases, and the results to a
// monitoring server.
func (b RunnerBuilder) WithMonitor(m *monitoring.Monitor) RunnerBuilder {
	b.monitor = m
	return b
}

// WithLogger prints one line per finished case.
func (b RunnerBuilder) WithLogger(l *log.Logger) RunnerBuilder {
	b.logger = l
	return b
}

// WithPendingHook attaches a hook to the buffer holding the cases that have
// not run yet.
func (b RunnerBuilder) WithPendingHook(h hooking.Hook) RunnerBuilder {
	b.hooks = append(slices.Clone(b.hooks), h)
	return b
}

// Build creates the runner. It panics if the plan is invalid.
func (b RunnerBuilder) Build() *Runner {
	err := b.plan.Validate()
	if err != nil {
		log.Panic(err)
	}

	r := &Runner{
		runID:    b.runID,
		plan:     b.plan,
		measurer: b.measurer,
		recorder: b.recorder,
		monitor:  b.monitor,
		logger:   b.logger,
		hooks:    b.hooks,
		hostInfo: CollectHost,
	}

	if r.runID == "" {
		r.runID = xid.New().String()
	}

	if r.measurer == nil {
		r.measurer = NewBenchmarkMeasurer(b.plan.BenchTime)
	}

	return r
}

// RunID returns the ID the results are tagged with.
func (r *Runner) RunID() string {
	return r.runID
}

// Run measures the cases in plan order. It stops between cases when ctx is
// done and returns the results gathered so far together with ctx.Err(). The
// cases not yet measured stay in the pending buffer.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	cases := r.plan.Cases()
	pending := r.buildPendingBuffer(cases)

	r.recordHost()

	if r.recorder != nil {
		r.recorder.CreateTable(ResultTable, Result{})
		defer r.recorder.Flush()
	}

	var bar *monitoring.ProgressBar
	if r.monitor != nil {
		bar = r.monitor.CreateProgressBar("Benchmark "+r.runID,
			uint64(len(cases)))
		defer r.monitor.CompleteProgressBar(bar)
	}

	results := make([]Result, 0, len(cases))

	for pending.Size() > 0 {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		c, _ := pending.Pop()

		if bar != nil {
			bar.IncrementInProgress(1)
		}

		res, err := r.runCase(c)
		if err != nil {
			return results, err
		}

		results = append(results, res)
		r.publish(res, results)

		if bar != nil {
			bar.MoveInProgressToFinished(1)
		}
	}

	return results, nil
}

// buildPendingBuffer stacks the cases so that they pop in plan order.
func (r *Runner) buildPendingBuffer(cases []Case) *queueing.Buffer[Case] {
	builder := queueing.MakeBufferBuilder[Case]().
		WithCapacity(len(cases))
	if r.monitor != nil {
		builder = builder.WithRegistrar(r.monitor)
	}

	pending := builder.Build("Runner.Pending")
	for _, h := range r.hooks {
		pending.AcceptHook(h)
	}

	for _, c := range slices.Backward(cases) {
		err := pending.Push(c)
		if err != nil {
			log.Panic(err)
		}
	}

	return pending
}

func (r *Runner) recordHost() {
	if r.recorder == nil {
		return
	}

	host, err := r.hostInfo(r.runID)
	if err != nil && r.logger != nil {
		r.logger.Printf("incomplete host information: %v", err)
	}

	r.recorder.CreateTable(HostTable, Host{})
	r.recorder.InsertData(HostTable, host)
}

func (r *Runner) runCase(c Case) (Result, error) {
	fn, err := c.BenchFunc()
	if err != nil {
		return Result{}, fmt.Errorf("case %s: %w", c.Name(), err)
	}

	m := r.measurer.Measure(fn)

	return Result{
		RunID:       r.runID,
		Workload:    string(c.Workload),
		Container:   string(c.Container),
		Size:        c.Size,
		Iterations:  m.Iterations,
		NsPerOp:     m.NsPerOp,
		NsPerItem:   m.NsPerOp / float64(c.Size),
		AllocsPerOp: m.AllocsPerOp,
		BytesPerOp:  m.BytesPerOp,
	}, nil
}

func (r *Runner) publish(res Result, results []Result) {
	if r.recorder != nil {
		r.recorder.InsertData(ResultTable, res)
	}

	if r.monitor != nil {
		r.monitor.SetResults(slices.Clone(results))
	}

	if r.logger != nil {
		r.logger.Printf("%-32s %12.1f ns/op %10.3f ns/item %4d allocs/op",
			fmt.Sprintf("%s/%s/%d", res.Workload, res.Container, res.Size),
			res.NsPerOp, res.NsPerItem, res.AllocsPerOp)
	}
}
