package hooking

import "sync"

// CountingHook counts how many times each position fired.
type CountingHook struct {
	lock   sync.Mutex
	counts map[*HookPos]uint64
}

// NewCountingHook creates an empty CountingHook.
func NewCountingHook() *CountingHook {
	return &CountingHook{counts: make(map[*HookPos]uint64)}
}

// Func increments the counter of ctx.Pos.
func (h *CountingHook) Func(ctx HookCtx) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.counts[ctx.Pos]++
}

// Count returns how many times pos fired.
func (h *CountingHook) Count(pos *HookPos) uint64 {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.counts[pos]
}

// Counts returns the counters keyed by position name.
func (h *CountingHook) Counts() map[string]uint64 {
	h.lock.Lock()
	defer h.lock.Unlock()

	out := make(map[string]uint64, len(h.counts))
	for pos, n := range h.counts {
		out[pos.Name] += n
	}

	return out
}
