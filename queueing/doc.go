// Package queueing provides Buffer, a named and hookable fixed-capacity
// stack built on vec.Vector.
//
//	buf := queueing.MakeBufferBuilder[int]().
//		WithCapacity(3).
//		Build("Demo.Buf")
//	buf.AcceptHook(hooking.NewLogHook(log.Default()))
//	err := buf.Push(1)
//
// Hooks are only invoked when at least one is registered, so an unobserved
// Buffer costs the same as the vector underneath it.
package queueing
