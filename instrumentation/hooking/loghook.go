package hooking

import (
	"log"

	"github.com/sarchlab/staticvec/naming"
)

// LogHook prints every event it sees through a logger.
type LogHook struct {
	*log.Logger
}

// NewLogHook creates a LogHook writing to logger.
func NewLogHook(logger *log.Logger) *LogHook {
	return &LogHook{Logger: logger}
}

// Func prints the event.
func (h *LogHook) Func(ctx HookCtx) {
	domain := "?"
	if named, ok := ctx.Domain.(naming.Named); ok {
		domain = named.Name()
	}

	if ctx.Detail != nil {
		h.Printf("%s %s %v %v", domain, ctx.Pos.Name, ctx.Item, ctx.Detail)
		return
	}

	h.Printf("%s %s %v", domain, ctx.Pos.Name, ctx.Item)
}
