package vec

import "reflect"

// A Destroyer is an element that must be told when it stops being live.
//
// A Vector calls Destroy exactly once for every element that leaves its live
// range through PopBack, SetIf, Clear, Release, or an assignment over
// existing contents. Elements moved out of a vector by TakeBack, Move, or
// MoveFrom are not destroyed there; their new owner is.
//
// A pointer, or another reference, that implements Destroyer names the
// object it refers to. A vector never copies such an element bit by bit, so
// that each object keeps a single owner.
type Destroyer interface {
	Destroy()
}

// A Cloner can produce an independent copy of itself.
type Cloner[T any] interface {
	Clone() T
}

// destroyFunc returns the function that ends the lifetime of a slot, or nil
// if T has no destruction behavior.
func destroyFunc[T any]() func(*T) {
	t := reflect.TypeFor[T]()

	if reflect.PointerTo(t).Implements(destroyerType) {
		return func(p *T) {
			any(p).(Destroyer).Destroy()
		}
	}

	if t.Kind() != reflect.Interface && !t.Implements(destroyerType) {
		return nil
	}

	// Pointer and interface element types: the dynamic value decides.
	return func(p *T) {
		d, ok := any(*p).(Destroyer)
		if !ok || isNil(d) {
			return
		}

		d.Destroy()
	}
}

var destroyerType = reflect.TypeFor[Destroyer]()

// byReference reports whether T can hold an element destroyed through a
// reference rather than through its own value.
func byReference[T any]() bool {
	k := reflect.TypeFor[T]().Kind()

	return k == reflect.Interface || isReferenceKind(k)
}

func isReferenceKind(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// destroyedByReference reports whether x is a live Destroyer reached
// through a reference.
func destroyedByReference(x any) bool {
	d, ok := x.(Destroyer)
	if !ok || isNil(d) {
		return false
	}

	return isReferenceKind(reflect.ValueOf(d).Kind())
}

// sameReferent reports whether a and b are references of the same type to
// the same object.
func sameReferent(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() {
		return false
	}

	if !isReferenceKind(va.Kind()) {
		return false
	}

	return va.Pointer() == vb.Pointer()
}

func isNil(d Destroyer) bool {
	v := reflect.ValueOf(d)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
