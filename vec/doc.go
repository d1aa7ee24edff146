// Package vec provides Vector, a sequence container whose capacity is fixed
// when it is created and whose storage is a single block that is never
// reallocated.
//
// Fallible operations return a Code instead of panicking:
//
//	v := vec.New[int](3)
//	v.PushBack(1) // NoError
//	v.PushBack(2) // NoError
//	v.PushBack(3) // NoError
//	v.PushBack(4) // OutOfSpace, Len() is still 3
//
// Two access families are provided. At and Get do not check the index
// against Len and are meant for hot loops. AtIf, FrontIf, BackIf, and SetIf
// check the index and report absence through a nil pointer or a Code.
//
// Element types that implement Destroyer are told when an element stops
// being live, exactly once per element. Element types that implement
// Cloner can be deep-copied with CloneDeep and PushBackClone; calling those
// with any other element type does not compile.
//
// A Vector has a single owner. It performs no locking.
package vec
