package benchmarking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/staticvec/instrumentation/hooking"
	"github.com/sarchlab/staticvec/monitoring"
	"github.com/sarchlab/staticvec/queueing"
)

func getJSON(m *monitoring.Monitor, url string, v any) {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	Expect(rec.Code).To(Equal(http.StatusOK))
	Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
}

var _ = Describe("Runner", func() {
	var (
		mockCtrl *gomock.Controller
		measurer *MockMeasurer
		recorder *MockDataRecorder
		plan     Plan
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		measurer = NewMockMeasurer(mockCtrl)
		recorder = NewMockDataRecorder(mockCtrl)

		plan = Plan{
			Workloads:  []Workload{WorkloadPushBack},
			Containers: []Container{ContainerStaticVec, ContainerSlice},
			Sizes:      []int{8, 64},
			BenchTime:  DefaultBenchTime,
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should generate a run ID", func() {
		r := MakeRunnerBuilder().WithMeasurer(measurer).Build()

		Expect(r.RunID()).NotTo(BeEmpty())
	})

	It("should panic on an invalid plan", func() {
		plan.Sizes = []int{0}

		Expect(func() {
			MakeRunnerBuilder().WithPlan(plan).WithMeasurer(measurer).Build()
		}).To(Panic())
	})

	It("should measure cases in plan order", func() {
		measurer.EXPECT().
			Measure(gomock.Any()).
			Return(Measurement{
				Iterations:  100,
				NsPerOp:     64,
				AllocsPerOp: 1,
				BytesPerOp:  512,
			}).
			Times(4)

		r := MakeRunnerBuilder().
			WithRunID("run").
			WithPlan(plan).
			WithMeasurer(measurer).
			Build()

		results, err := r.Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		names := make([]string, 0, len(results))
		for _, res := range results {
			names = append(names, fmt.Sprintf("%s/%d", res.Container, res.Size))
		}
		Expect(names).To(Equal([]string{
			"staticvec/8", "slice/8", "staticvec/64", "slice/64",
		}))

		Expect(results[0]).To(Equal(Result{
			RunID:       "run",
			Workload:    "push_back",
			Container:   "staticvec",
			Size:        8,
			Iterations:  100,
			NsPerOp:     64,
			NsPerItem:   8,
			AllocsPerOp: 1,
			BytesPerOp:  512,
		}))
		Expect(results[3].NsPerItem).To(Equal(1.0))
	})

	It("should record the host and the results", func() {
		measurer.EXPECT().
			Measure(gomock.Any()).
			Return(Measurement{Iterations: 1, NsPerOp: 8}).
			Times(4)

		host := Host{RunID: "run", CPUModel: "Test CPU", Cores: 4}

		gomock.InOrder(
			recorder.EXPECT().CreateTable(HostTable, Host{}),
			recorder.EXPECT().InsertData(HostTable, host),
			recorder.EXPECT().CreateTable(ResultTable, Result{}),
			recorder.EXPECT().
				InsertData(ResultTable, gomock.AssignableToTypeOf(Result{})).
				Times(4),
			recorder.EXPECT().Flush(),
		)

		r := MakeRunnerBuilder().
			WithRunID("run").
			WithPlan(plan).
			WithMeasurer(measurer).
			WithRecorder(recorder).
			Build()
		r.hostInfo = func(runID string) (Host, error) {
			Expect(runID).To(Equal("run"))
			return host, nil
		}

		_, err := r.Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
	})

	It("should report to a monitor", func() {
		measurer.EXPECT().
			Measure(gomock.Any()).
			Return(Measurement{Iterations: 1, NsPerOp: 16}).
			Times(4)

		m := monitoring.NewMonitor()
		r := MakeRunnerBuilder().
			WithRunID("run").
			WithPlan(plan).
			WithMeasurer(measurer).
			WithMonitor(m).
			Build()

		_, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		var results []Result
		getJSON(m, "/api/results", &results)
		Expect(results).To(HaveLen(4))

		var bars []map[string]any
		getJSON(m, "/api/progress", &bars)
		Expect(bars).To(BeEmpty())

		var buffers []queueing.LevelSnapshot
		getJSON(m, "/api/buffers", &buffers)
		Expect(buffers).To(Equal([]queueing.LevelSnapshot{{
			Buffer: "Runner.Pending",
			Level:  0,
			Cap:    4,
		}}))
	})

	It("should expose the pending cases to hooks", func() {
		measurer.EXPECT().
			Measure(gomock.Any()).
			Return(Measurement{Iterations: 1, NsPerOp: 1}).
			Times(4)

		counter := hooking.NewCountingHook()
		r := MakeRunnerBuilder().
			WithPlan(plan).
			WithMeasurer(measurer).
			WithPendingHook(counter).
			Build()

		_, err := r.Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(counter.Count(queueing.HookPosBufPush)).To(Equal(uint64(4)))
		Expect(counter.Count(queueing.HookPosBufPop)).To(Equal(uint64(4)))
	})

	It("should serve the pending level while cases run", func() {
		measurer.EXPECT().
			Measure(gomock.Any()).
			DoAndReturn(func(func(*testing.B)) Measurement {
				time.Sleep(time.Millisecond)
				return Measurement{Iterations: 1, NsPerOp: 1}
			}).
			Times(4)

		m := monitoring.NewMonitor()
		r := MakeRunnerBuilder().
			WithPlan(plan).
			WithMeasurer(measurer).
			WithMonitor(m).
			Build()

		done := make(chan struct{})
		polled := make(chan int)

		go func() {
			defer GinkgoRecover()

			for n := 1; ; n++ {
				var buffers []queueing.LevelSnapshot
				getJSON(m, "/api/buffers", &buffers)
				for _, b := range buffers {
					Expect(b.Level).To(BeNumerically("<=", b.Cap))
				}

				select {
				case <-done:
					polled <- n
					return
				default:
				}
			}
		}()

		_, err := r.Run(context.Background())
		close(done)

		Expect(err).NotTo(HaveOccurred())
		Expect(<-polled).To(BeNumerically(">", 0))
	})

	It("should stop when the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		m := monitoring.NewMonitor()
		r := MakeRunnerBuilder().
			WithPlan(plan).
			WithMeasurer(measurer).
			WithMonitor(m).
			Build()

		results, err := r.Run(ctx)

		Expect(err).To(MatchError(context.Canceled))
		Expect(results).To(BeEmpty())

		var buffers []queueing.LevelSnapshot
		getJSON(m, "/api/buffers", &buffers)
		Expect(buffers).To(HaveLen(1))
		Expect(buffers[0].Level).To(Equal(4))
	})

	It("should stop between cases", func() {
		ctx, cancel := context.WithCancel(context.Background())

		measurer.EXPECT().
			Measure(gomock.Any()).
			DoAndReturn(func(func(*testing.B)) Measurement {
				cancel()
				return Measurement{Iterations: 1, NsPerOp: 1}
			})

		m := monitoring.NewMonitor()
		r := MakeRunnerBuilder().
			WithPlan(plan).
			WithMeasurer(measurer).
			WithMonitor(m).
			Build()

		results, err := r.Run(ctx)

		Expect(err).To(MatchError(context.Canceled))
		Expect(results).To(HaveLen(1))

		var buffers []queueing.LevelSnapshot
		getJSON(m, "/api/buffers", &buffers)
		Expect(buffers).To(HaveLen(1))
		Expect(buffers[0].Level).To(Equal(3))
	})
})
