package queueing

import (
	"sync"

	"github.com/sarchlab/staticvec/instrumentation/hooking"
	"github.com/sarchlab/staticvec/naming"
	"github.com/sarchlab/staticvec/vec"
)

// HookPosBufPush marks when an element is pushed into the buffer.
var HookPosBufPush = &hooking.HookPos{Name: "Buffer Push"}

// HookPosBufPop marks when an element is popped from the buffer.
var HookPosBufPop = &hooking.HookPos{Name: "Buffer Pop"}

// HookPosBufReject marks when a push is refused because the buffer is full.
var HookPosBufReject = &hooking.HookPos{Name: "Buffer Reject"}

// HookPosBufClear marks when the buffer is cleared. Item is the number of
// elements dropped.
var HookPosBufClear = &hooking.HookPos{Name: "Buffer Clear"}

// A Level is anything that reports how full it is.
type Level interface {
	naming.Named

	Size() int
	Capacity() int
}

// Buffer is a named, hookable stack of at most Capacity elements. Elements
// are popped in the reverse order they were pushed.
//
// A Buffer may be read from other goroutines, for example by a monitor,
// while its owner pushes and pops. Hooks run after the buffer is unlocked, so
// a hook may query the buffer it observes.
type Buffer[T any] struct {
	hooking.HookableBase

	name string

	lock     sync.Mutex
	elements *vec.Vector[T]
}

// Name returns the name of the buffer.
func (b *Buffer[T]) Name() string {
	return b.name
}

// CanPush checks if the buffer can accept a new element.
func (b *Buffer[T]) CanPush() bool {
	b.lock.Lock()
	defer b.lock.Unlock()

	return !b.elements.IsFull()
}

// Push adds an element to the top of the buffer. It returns
// vec.ErrOutOfSpace if the buffer is full.
func (b *Buffer[T]) Push(e T) error {
	b.lock.Lock()
	code := b.elements.PushBack(e)
	size := b.elements.Len()
	b.lock.Unlock()

	if b.NumHooks() > 0 {
		pos := HookPosBufPush
		if code != vec.NoError {
			pos = HookPosBufReject
		}

		b.InvokeHook(hooking.HookCtx{
			Domain: b,
			Pos:    pos,
			Item:   e,
			Detail: size,
		})
	}

	return code.Err()
}

// Pop removes and returns the top element. The caller takes over the
// element, which is not destroyed. The second return value is false if the
// buffer is empty.
func (b *Buffer[T]) Pop() (T, bool) {
	b.lock.Lock()
	e, code := b.elements.TakeBack()
	size := b.elements.Len()
	b.lock.Unlock()

	if code != vec.NoError {
		return e, false
	}

	if b.NumHooks() > 0 {
		b.InvokeHook(hooking.HookCtx{
			Domain: b,
			Pos:    HookPosBufPop,
			Item:   e,
			Detail: size,
		})
	}

	return e, true
}

// Peek returns the top element without removing it.
func (b *Buffer[T]) Peek() (T, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	top := b.elements.BackIf()
	if top == nil {
		var zero T
		return zero, false
	}

	return *top, true
}

// Capacity returns the maximum number of elements in the buffer.
func (b *Buffer[T]) Capacity() int {
	return b.elements.Cap()
}

// Size returns the current number of elements in the buffer.
func (b *Buffer[T]) Size() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.elements.Len()
}

// Elements returns a copy of the buffered elements from bottom to top.
func (b *Buffer[T]) Elements() []T {
	b.lock.Lock()
	defer b.lock.Unlock()

	return append([]T(nil), b.elements.Slice()...)
}

// Clear removes and destroys all elements in the buffer.
func (b *Buffer[T]) Clear() {
	b.lock.Lock()
	n := b.elements.Len()
	b.elements.Clear()
	b.lock.Unlock()

	if b.NumHooks() > 0 {
		b.InvokeHook(hooking.HookCtx{
			Domain: b,
			Pos:    HookPosBufClear,
			Item:   n,
		})
	}
}

// Snapshot returns the current level of the buffer.
func (b *Buffer[T]) Snapshot() LevelSnapshot {
	b.lock.Lock()
	defer b.lock.Unlock()

	return LevelSnapshot{
		Buffer: b.name,
		Level:  b.elements.Len(),
		Cap:    b.elements.Cap(),
	}
}

// LevelSnapshot is the occupancy of a Level at one moment.
type LevelSnapshot struct {
	Buffer string `json:"buffer"`
	Level  int    `json:"level"`
	Cap    int    `json:"cap"`
}

// Percent returns the fraction of the capacity in use. A Level with no
// capacity is reported as full.
func (s LevelSnapshot) Percent() float64 {
	if s.Cap == 0 {
		return 1
	}

	return float64(s.Level) / float64(s.Cap)
}

// SnapshotOf captures the current level of l. Levels that can snapshot
// themselves atomically are asked to.
func SnapshotOf(l Level) LevelSnapshot {
	if s, ok := l.(interface{ Snapshot() LevelSnapshot }); ok {
		return s.Snapshot()
	}

	return LevelSnapshot{
		Buffer: l.Name(),
		Level:  l.Size(),
		Cap:    l.Capacity(),
	}
}
