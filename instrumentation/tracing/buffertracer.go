package tracing

import (
	"sync"

	"github.com/sarchlab/staticvec/datarecording"
	"github.com/sarchlab/staticvec/instrumentation/hooking"
	"github.com/sarchlab/staticvec/queueing"
)

// BufferEventTable is the table BufferTracer writes into.
const BufferEventTable = "buffer_event"

// BufferEvent is a row of the buffer_event table.
type BufferEvent struct {
	RunID    string
	Seq      uint64
	Buffer   string
	Pos      string
	Size     int
	Capacity int
}

// BufferTracer records buffer events through a DataRecorder.
type BufferTracer struct {
	lock     sync.Mutex
	runID    string
	seq      uint64
	recorder datarecording.DataRecorder
}

// NewBufferTracer creates a BufferTracer and the table it writes to.
func NewBufferTracer(
	runID string,
	recorder datarecording.DataRecorder,
) *BufferTracer {
	recorder.CreateTable(BufferEventTable, BufferEvent{})

	return &BufferTracer{
		runID:    runID,
		recorder: recorder,
	}
}

// Func records the event. Events from domains that do not report a level
// are ignored.
func (t *BufferTracer) Func(ctx hooking.HookCtx) {
	level, ok := ctx.Domain.(queueing.Level)
	if !ok {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.seq++
	t.recorder.InsertData(BufferEventTable, BufferEvent{
		RunID:    t.runID,
		Seq:      t.seq,
		Buffer:   level.Name(),
		Pos:      ctx.Pos.Name,
		Size:     level.Size(),
		Capacity: level.Capacity(),
	})
}

// Flush writes buffered events.
func (t *BufferTracer) Flush() {
	t.recorder.Flush()
}
