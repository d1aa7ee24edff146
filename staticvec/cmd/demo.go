package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/staticvec/datarecording"
	"github.com/sarchlab/staticvec/instrumentation/hooking"
	"github.com/sarchlab/staticvec/instrumentation/tracing"
	"github.com/sarchlab/staticvec/queueing"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk a capacity-3 stack through its result codes.",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.SilenceUsage = true

		trace := cfg.Trace
		if cmd.Flags().Changed("trace") {
			trace, _ = cmd.Flags().GetBool("trace")
		}

		db := cfg.DB
		if cmd.Flags().Changed("db") {
			db, _ = cmd.Flags().GetString("db")
		}

		var recorder datarecording.DataRecorder
		if trace {
			recorder = datarecording.NewDataRecorder(db)
		}

		runDemo(os.Stdout, recorder)

		if recorder != nil {
			err := recorder.Close()
			if err != nil {
				log.Fatalf("Error closing database: %v", err)
			}
		}
	},
}

func init() {
	demoCmd.Flags().Bool("trace", false, "record the buffer events")
	demoCmd.Flags().String("db", "",
		"name of the recording database, without the .sqlite3 extension")
	rootCmd.AddCommand(demoCmd)
}

// demoItem reports its own destruction.
type demoItem struct {
	value int
	out   io.Writer
}

func (d demoItem) Destroy() {
	fmt.Fprintf(d.out, "destroy %d\n", d.value)
}

func (d demoItem) String() string {
	return strconv.Itoa(d.value)
}

// runDemo pushes 1 to 4 into a stack of capacity 3 and pops it until it
// reports empty. A popped item belongs to the demo, which destroys it after
// printing it. Events are printed as they happen. With a recorder, the
// events are also recorded.
func runDemo(out io.Writer, recorder datarecording.DataRecorder) {
	stack := queueing.MakeBufferBuilder[demoItem]().
		WithCapacity(3).
		Build("Demo.Stack")

	counter := hooking.NewCountingHook()
	stack.AcceptHook(hooking.NewLogHook(log.New(out, "hook: ", 0)))
	stack.AcceptHook(counter)

	if recorder != nil {
		stack.AcceptHook(tracing.NewBufferTracer("demo", recorder))
	}

	for i := 1; i <= 4; i++ {
		err := stack.Push(demoItem{value: i, out: out})
		fmt.Fprintf(out, "push %d: %s, size %d\n", i, describe(err), stack.Size())
	}

	for {
		item, ok := stack.Pop()
		if !ok {
			fmt.Fprintf(out, "pop: empty, size %d\n", stack.Size())
			break
		}

		fmt.Fprintf(out, "pop: %d, size %d\n", item.value, stack.Size())
		item.Destroy()
	}

	fmt.Fprintf(out, "pushed %d, rejected %d, popped %d\n",
		counter.Count(queueing.HookPosBufPush),
		counter.Count(queueing.HookPosBufReject),
		counter.Count(queueing.HookPosBufPop))
}

func describe(err error) string {
	if err == nil {
		return "ok"
	}

	return err.Error()
}
