package vec

import "iter"

// All returns a traversal of the live elements from first to last, yielding
// each index with a pointer to its slot. Each call starts a fresh traversal.
// The sequence must not be resumed after an operation that changes Len.
func (v *Vector[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < v.count; i++ {
			if !yield(i, &v.slots[i]) {
				return
			}
		}
	}
}

// Backward is All in reverse order.
func (v *Vector[T]) Backward() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := v.count - 1; i >= 0; i-- {
			if !yield(i, &v.slots[i]) {
				return
			}
		}
	}
}

// Values returns a traversal of copies of the live elements.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.count; i++ {
			if !yield(v.slots[i]) {
				return
			}
		}
	}
}
