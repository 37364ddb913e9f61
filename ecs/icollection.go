package ecs

// iCollection is the type-erased view of a Collection held by the Registry.
// It carries only the operations that do not depend on the component type;
// typed access goes through a checked conversion back to *Collection[T].
type iCollection interface {
	Remove(e EntityId) bool
	Contains(e EntityId) bool
	Len() int
	Cap() int
	Fixed() bool
	IsFull() bool

	mustNotIterate()
}

var _ iCollection = (*Collection[Owner])(nil)
