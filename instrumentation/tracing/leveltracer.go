package tracing

import (
	"sync"

	"github.com/sarchlab/staticvec/instrumentation/hooking"
	"github.com/sarchlab/staticvec/queueing"
)

// LevelStat summarizes the occupancy of one buffer.
type LevelStat struct {
	Buffer   string `json:"buffer"`
	Peak     int    `json:"peak"`
	Capacity int    `json:"cap"`
	Pushes   uint64 `json:"pushes"`
	Pops     uint64 `json:"pops"`
	Rejects  uint64 `json:"rejects"`
}

// LevelTracer tracks peak occupancy and reject counts per buffer.
type LevelTracer struct {
	lock  sync.Mutex
	names []string
	stats map[string]*LevelStat
}

// NewLevelTracer creates an empty LevelTracer.
func NewLevelTracer() *LevelTracer {
	return &LevelTracer{stats: make(map[string]*LevelStat)}
}

// Func updates the statistics of the buffer raising the event.
func (t *LevelTracer) Func(ctx hooking.HookCtx) {
	level, ok := ctx.Domain.(queueing.Level)
	if !ok {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	s, found := t.stats[level.Name()]
	if !found {
		s = &LevelStat{Buffer: level.Name(), Capacity: level.Capacity()}
		t.stats[level.Name()] = s
		t.names = append(t.names, level.Name())
	}

	switch ctx.Pos {
	case queueing.HookPosBufPush:
		s.Pushes++
	case queueing.HookPosBufPop:
		s.Pops++
	case queueing.HookPosBufReject:
		s.Rejects++
	}

	s.Peak = max(s.Peak, level.Size())
}

// Stats returns a copy of the statistics in first-seen order.
func (t *LevelTracer) Stats() []LevelStat {
	t.lock.Lock()
	defer t.lock.Unlock()

	out := make([]LevelStat, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, *t.stats[name])
	}

	return out
}
