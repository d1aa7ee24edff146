package queueing

import (
	"github.com/sarchlab/staticvec/naming"
	"github.com/sarchlab/staticvec/vec"
)

// A Registrar keeps track of buffers, typically for monitoring.
type Registrar interface {
	RegisterBuffer(l Level)
}

// BufferBuilder is a builder for Buffer.
type BufferBuilder[T any] struct {
	capacity  int
	storage   []T
	registrar Registrar
}

// MakeBufferBuilder creates a BufferBuilder with a capacity of 1.
func MakeBufferBuilder[T any]() BufferBuilder[T] {
	return BufferBuilder[T]{capacity: 1}
}

// WithCapacity defines the capacity of the buffer.
func (b BufferBuilder[T]) WithCapacity(capacity int) BufferBuilder[T] {
	b.capacity = capacity
	return b
}

// WithStorage makes the buffer keep its elements in storage instead of
// allocating. The capacity becomes cap(storage).
func (b BufferBuilder[T]) WithStorage(storage []T) BufferBuilder[T] {
	b.storage = storage
	return b
}

// WithRegistrar registers every built buffer with r.
func (b BufferBuilder[T]) WithRegistrar(r Registrar) BufferBuilder[T] {
	b.registrar = r
	return b
}

// Build builds a new Buffer.
func (b BufferBuilder[T]) Build(name string) *Buffer[T] {
	naming.NameMustBeValid(name)

	buf := &Buffer[T]{name: name}

	if b.storage != nil {
		v := vec.Over(b.storage)
		buf.elements = &v
	} else {
		buf.elements = vec.New[T](b.capacity)
	}

	if b.registrar != nil {
		b.registrar.RegisterBuffer(buf)
	}

	return buf
}
