package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/staticvec/instrumentation/hooking"
	"github.com/sarchlab/staticvec/queueing"
)

var _ = Describe("BufferTracer", func() {
	var (
		mockCtrl *gomock.Controller
		recorder *MockDataRecorder
		tracer   *BufferTracer
		buf      *queueing.Buffer[int]
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		recorder = NewMockDataRecorder(mockCtrl)
		recorder.EXPECT().CreateTable(BufferEventTable, BufferEvent{})

		tracer = NewBufferTracer("run", recorder)
		buf = queueing.MakeBufferBuilder[int]().
			WithCapacity(1).
			Build("Trace.Buf")
		buf.AcceptHook(tracer)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record every event in order", func() {
		gomock.InOrder(
			recorder.EXPECT().InsertData(BufferEventTable, BufferEvent{
				RunID: "run", Seq: 1, Buffer: "Trace.Buf",
				Pos: "Buffer Push", Size: 1, Capacity: 1,
			}),
			recorder.EXPECT().InsertData(BufferEventTable, BufferEvent{
				RunID: "run", Seq: 2, Buffer: "Trace.Buf",
				Pos: "Buffer Reject", Size: 1, Capacity: 1,
			}),
			recorder.EXPECT().InsertData(BufferEventTable, BufferEvent{
				RunID: "run", Seq: 3, Buffer: "Trace.Buf",
				Pos: "Buffer Pop", Size: 0, Capacity: 1,
			}),
			recorder.EXPECT().Flush(),
		)

		Expect(buf.Push(1)).To(Succeed())
		Expect(buf.Push(2)).NotTo(Succeed())
		buf.Pop()
		tracer.Flush()
	})

	It("should ignore domains without a level", func() {
		tracer.Func(hooking.HookCtx{
			Domain: &hooking.HookableBase{},
			Pos:    queueing.HookPosBufPush,
		})
	})
})

var _ = Describe("LevelTracer", func() {
	It("should track peaks and rejects", func() {
		tracer := NewLevelTracer()
		buf := queueing.MakeBufferBuilder[string]().
			WithCapacity(2).
			Build("Level.Buf")
		buf.AcceptHook(tracer)

		buf.Push("a")
		buf.Push("b")
		buf.Push("c")
		buf.Pop()
		buf.Pop()

		Expect(tracer.Stats()).To(Equal([]LevelStat{{
			Buffer:   "Level.Buf",
			Peak:     2,
			Capacity: 2,
			Pushes:   2,
			Pops:     2,
			Rejects:  1,
		}}))
	})
})
