package vec

// noCopy makes go vet's copylocks check report copies of a Vector.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Vector is a sequence of at most Cap() elements kept in a single storage
// block that is never reallocated.
//
// Slots [0, Len()) hold live elements. The remaining slots hold the zero
// value of T. A Vector must not be copied after first use; use Clone,
// CopyFrom, Move, or MoveFrom instead.
//
// The zero value is an empty Vector with capacity 0.
type Vector[T any] struct {
	noCopy noCopy

	slots   []T
	count   int
	destroy func(*T)

	// shared is set when elements may be destroyed through a reference, so
	// that a bitwise copy of an element would give its referent two owners.
	shared bool
}

// New creates an empty Vector that can hold capacity elements. The storage
// block is allocated once, here.
func New[T any](capacity int) *Vector[T] {
	if capacity < 0 {
		panic("vec: negative capacity")
	}

	destroy := destroyFunc[T]()

	return &Vector[T]{
		slots:   make([]T, capacity),
		destroy: destroy,
		shared:  destroy != nil && byReference[T](),
	}
}

// Over creates an empty Vector whose storage is buf[:cap(buf)]. Nothing is
// allocated, so a Vector over a local array can live entirely on the stack:
//
//	var storage [16]int
//	v := vec.Over(storage[:])
//
// The Vector takes ownership of buf. Existing contents are zeroed.
func Over[T any](buf []T) Vector[T] {
	slots := buf[:cap(buf)]
	clear(slots)

	destroy := destroyFunc[T]()

	return Vector[T]{
		slots:   slots,
		destroy: destroy,
		shared:  destroy != nil && byReference[T](),
	}
}

// Len returns the number of live elements.
func (v *Vector[T]) Len() int {
	return v.count
}

// Cap returns the number of slots. It never changes.
func (v *Vector[T]) Cap() int {
	return len(v.slots)
}

// IsEmpty reports whether the vector has no live elements.
func (v *Vector[T]) IsEmpty() bool {
	return v.count == 0
}

// IsFull reports whether every slot is live.
func (v *Vector[T]) IsFull() bool {
	return v.count == len(v.slots)
}

// PushBack appends a copy of x.
func (v *Vector[T]) PushBack(x T) Code {
	if v.count == len(v.slots) {
		return OutOfSpace
	}

	v.slots[v.count] = x
	v.count++

	return NoError
}

// PushBackMove appends the value src points to and resets *src to the zero
// value. On OutOfSpace, *src is left untouched.
func (v *Vector[T]) PushBackMove(src *T) Code {
	if v.count == len(v.slots) {
		return OutOfSpace
	}

	v.slots[v.count] = *src
	var zero T
	*src = zero
	v.count++

	return NoError
}

// PushBackClone appends x.Clone(). It is only available for element types
// that implement Cloner.
func PushBackClone[T Cloner[T]](v *Vector[T], x T) Code {
	if v.count == len(v.slots) {
		return OutOfSpace
	}

	v.slots[v.count] = x.Clone()
	v.count++

	return NoError
}

// EmplaceBack constructs a new last element in place. init receives the
// zeroed slot the element will occupy and is not called when the vector is
// full.
func (v *Vector[T]) EmplaceBack(init func(slot *T)) Code {
	if v.count == len(v.slots) {
		return OutOfSpace
	}

	init(&v.slots[v.count])
	v.count++

	return NoError
}

// EmplaceBackWith constructs a new last element in place by calling
// ctor(slot, arg).
func EmplaceBackWith[T, A any](v *Vector[T], ctor func(*T, A), arg A) Code {
	if v.count == len(v.slots) {
		return OutOfSpace
	}

	ctor(&v.slots[v.count], arg)
	v.count++

	return NoError
}

// PopBack destroys the last element.
func (v *Vector[T]) PopBack() Code {
	if v.count == 0 {
		return Empty
	}

	v.count--
	v.kill(v.count)

	return NoError
}

// TakeBack removes the last element and returns it without destroying it.
// The caller becomes the element's owner. On an empty vector it returns the
// zero value and Empty.
func (v *Vector[T]) TakeBack() (T, Code) {
	var zero T

	if v.count == 0 {
		return zero, Empty
	}

	v.count--
	x := v.slots[v.count]
	v.slots[v.count] = zero

	return x, NoError
}

// At returns a pointer to element i without checking i against Len. The
// caller guarantees 0 <= i < Len(). Indexes past Len but inside the block
// yield a dead slot; indexes outside the block panic.
func (v *Vector[T]) At(i int) *T {
	return &v.slots[i]
}

// Get returns element i by value, with the same contract as At.
func (v *Vector[T]) Get(i int) T {
	return v.slots[i]
}

// AtIf returns a pointer to element i, or nil if i is not in [0, Len()).
func (v *Vector[T]) AtIf(i int) *T {
	if i < 0 || i >= v.count {
		return nil
	}

	return &v.slots[i]
}

// FrontIf returns a pointer to the first element, or nil if the vector is
// empty.
func (v *Vector[T]) FrontIf() *T {
	if v.count == 0 {
		return nil
	}

	return &v.slots[0]
}

// BackIf returns a pointer to the last element, or nil if the vector is
// empty.
func (v *Vector[T]) BackIf() *T {
	if v.count == 0 {
		return nil
	}

	return &v.slots[v.count-1]
}

// SetIf replaces element i with x, destroying the old element. Storing the
// reference an element already holds destroys nothing. It returns OutOfRange
// without mutation if i is not in [0, Len()).
func (v *Vector[T]) SetIf(i int, x T) Code {
	if i < 0 || i >= v.count {
		return OutOfRange
	}

	if v.shared && sameReferent(any(v.slots[i]), any(x)) {
		v.slots[i] = x
		return NoError
	}

	v.kill(i)
	v.slots[i] = x

	return NoError
}

// Slice returns the live elements as a slice sharing the vector's storage.
// Its capacity is clipped to Len, so appending to it never writes into the
// vector.
func (v *Vector[T]) Slice() []T {
	return v.slots[:v.count:v.count]
}

// Clear destroys all live elements in order. Clearing an empty vector does
// nothing.
func (v *Vector[T]) Clear() {
	for i := 0; i < v.count; i++ {
		v.kill(i)
	}

	v.count = 0
}

// Release ends the lifetime of the vector's contents. Call it when the
// vector goes out of use if the element type implements Destroyer; the
// storage itself is reclaimed with the vector. A released vector is empty
// and remains usable.
func (v *Vector[T]) Release() {
	v.Clear()
}

// Clone returns a new vector with the same capacity holding copies of the
// live elements.
//
// Clone panics if an element is destroyed through a pointer or another
// reference, since both vectors would then destroy the same object. Use
// CloneDeep or Move for such elements.
func (v *Vector[T]) Clone() *Vector[T] {
	v.mustCopy()

	c := v.emptyLike()
	c.count = copy(c.slots, v.slots[:v.count])

	return c
}

// CloneDeep returns a new vector with the same capacity holding Clone() of
// every live element.
func CloneDeep[T Cloner[T]](v *Vector[T]) *Vector[T] {
	c := v.emptyLike()

	for i := 0; i < v.count; i++ {
		c.slots[i] = v.slots[i].Clone()
	}

	c.count = v.count

	return c
}

// CopyFrom replaces the contents of v with copies of src's elements. The
// previous elements of v are destroyed first. If src has more elements than
// v can hold, CopyFrom returns OutOfSpace and changes nothing.
//
// Like Clone, CopyFrom panics without changing v if an element of src is
// destroyed through a reference.
func (v *Vector[T]) CopyFrom(src *Vector[T]) Code {
	if v == src {
		return NoError
	}

	if src.count > len(v.slots) {
		return OutOfSpace
	}

	src.mustCopy()

	v.Clear()
	v.count = copy(v.slots, src.slots[:src.count])

	return NoError
}

// Move returns a new vector with the same capacity that owns v's elements.
// v is left empty. The moved elements are not destroyed.
func (v *Vector[T]) Move() *Vector[T] {
	m := v.emptyLike()

	m.count = copy(m.slots, v.slots[:v.count])
	v.forget()

	return m
}

// MoveFrom destroys the elements of v and takes ownership of src's
// elements, leaving src empty. If src has more elements than v can hold,
// MoveFrom returns OutOfSpace and changes nothing.
func (v *Vector[T]) MoveFrom(src *Vector[T]) Code {
	if v == src {
		return NoError
	}

	if src.count > len(v.slots) {
		return OutOfSpace
	}

	v.Clear()
	v.count = copy(v.slots, src.slots[:src.count])
	src.forget()

	return NoError
}

// emptyLike returns an empty vector with v's capacity and element handling.
func (v *Vector[T]) emptyLike() *Vector[T] {
	return &Vector[T]{
		slots:   make([]T, len(v.slots)),
		destroy: v.destroy,
		shared:  v.shared,
	}
}

// mustCopy panics if copying the live elements bit by bit would give an
// object a second owner.
func (v *Vector[T]) mustCopy() {
	if !v.shared {
		return
	}

	for i := 0; i < v.count; i++ {
		if destroyedByReference(any(v.slots[i])) {
			panic("vec: shallow copy of an element destroyed through " +
				"a reference; use CloneDeep or Move")
		}
	}
}

// kill ends the lifetime of slot i.
func (v *Vector[T]) kill(i int) {
	if v.destroy != nil {
		v.destroy(&v.slots[i])
	}

	var zero T
	v.slots[i] = zero
}

// forget drops the live elements without destroying them, after their
// ownership has moved elsewhere.
func (v *Vector[T]) forget() {
	clear(v.slots[:v.count])
	v.count = 0
}
