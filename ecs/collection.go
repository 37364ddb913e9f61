package ecs

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

const defaultCollectionCapacity = 64

// CollectionOption configures a Collection at construction or registration.
type CollectionOption func(*collectionConfig)

type collectionConfig struct {
	capacity int
	fixed    bool
}

// WithCapacity pre-sizes the collection for n components. The collection
// still grows past n.
func WithCapacity(n int) CollectionOption {
	return func(c *collectionConfig) {
		c.capacity = n
		c.fixed = false
	}
}

// WithFixedCapacity bounds the collection to n components. Create on a full
// collection stores nothing and returns false.
func WithFixedCapacity(n int) CollectionOption {
	return func(c *collectionConfig) {
		c.capacity = n
		c.fixed = true
	}
}

// Collection is a sparse set holding at most one T per entity. Values are
// packed in a dense slice with a parallel slice of owners, and a sparse index
// maps each owner to its dense slot.
//
// Removal moves the last value into the vacated slot, so iteration order is
// not stable across removals. Pointers returned by GetMut or IterMut are valid
// until the next Create or Remove on the same collection.
type Collection[T Component] struct {
	data     []T
	entities []EntityId
	sparse   *intmap.Map[EntityId, int]

	limit int
	fixed bool

	// iterating counts live iterators; Create and Remove panic while it is
	// non-zero.
	iterating int
}

// NewCollection creates an empty collection.
func NewCollection[T Component](opts ...CollectionOption) *Collection[T] {
	var cfg collectionConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	size := cfg.capacity
	if size < 0 {
		size = 0
	}
	if size == 0 && !cfg.fixed {
		size = defaultCollectionCapacity
	}

	return &Collection[T]{
		data:     make([]T, 0, size),
		entities: make([]EntityId, 0, size),
		sparse:   intmap.New[EntityId, int](size),
		limit:    size,
		fixed:    cfg.fixed,
	}
}

// Contains reports whether e has a value in the collection.
func (c *Collection[T]) Contains(e EntityId) bool {
	return c.sparse.Has(e)
}

// Create stores value for the entity returned by value.Entity(). It never
// overwrites: if the entity already has a value, or a fixed collection is
// full, nothing changes and Create returns false.
func (c *Collection[T]) Create(value T) bool {
	c.mustNotIterate()

	e := value.Entity()
	if c.sparse.Has(e) || c.IsFull() {
		return false
	}

	c.sparse.Put(e, len(c.data))
	c.data = append(c.data, value)
	c.entities = append(c.entities, e)
	return true
}

// Get returns a copy of the value owned by e.
func (c *Collection[T]) Get(e EntityId) (T, bool) {
	if slot, ok := c.sparse.Get(e); ok {
		return c.data[slot], true
	}
	var zero T
	return zero, false
}

// GetMut returns a pointer to the value owned by e, or nil.
func (c *Collection[T]) GetMut(e EntityId) *T {
	if slot, ok := c.sparse.Get(e); ok {
		return &c.data[slot]
	}
	return nil
}

// Remove deletes the value owned by e. Removing an absent entity is a no-op
// and returns false.
func (c *Collection[T]) Remove(e EntityId) bool {
	c.mustNotIterate()

	slot, ok := c.sparse.Get(e)
	if !ok {
		return false
	}

	c.data, c.entities = swapRemove(c.data, c.entities, slot)
	if slot < len(c.entities) {
		c.sparse.Put(c.entities[slot], slot)
	}
	c.sparse.Del(e)
	return true
}

// EntitiesWhere returns every entity whose value satisfies pred, in dense
// order. The collection must not be mutated from pred.
func (c *Collection[T]) EntitiesWhere(pred func(*T) bool) []EntityId {
	c.begin()
	defer c.end()

	var result []EntityId
	for i := range c.data {
		if pred(&c.data[i]) {
			result = append(result, c.entities[i])
		}
	}
	return result
}

// Entities returns a copy of the owners in dense order.
func (c *Collection[T]) Entities() []EntityId {
	result := make([]EntityId, len(c.entities))
	copy(result, c.entities)
	return result
}

// Iter yields a copy of every value in dense order.
func (c *Collection[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		c.begin()
		defer c.end()

		for i := range c.data {
			if !yield(c.data[i]) {
				return
			}
		}
	}
}

// IterMut yields a pointer to every value in dense order.
func (c *Collection[T]) IterMut() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		c.begin()
		defer c.end()

		for i := range c.data {
			if !yield(&c.data[i]) {
				return
			}
		}
	}
}

// IterWithEntities yields each owner with a copy of its value.
func (c *Collection[T]) IterWithEntities() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		c.begin()
		defer c.end()

		for i := range c.data {
			if !yield(c.entities[i], c.data[i]) {
				return
			}
		}
	}
}

// IterWithEntitiesMut yields each owner with a pointer to its value.
func (c *Collection[T]) IterWithEntitiesMut() iter.Seq2[EntityId, *T] {
	return func(yield func(EntityId, *T) bool) {
		c.begin()
		defer c.end()

		for i := range c.data {
			if !yield(c.entities[i], &c.data[i]) {
				return
			}
		}
	}
}

func (c *Collection[T]) Len() int      { return len(c.data) }
func (c *Collection[T]) IsEmpty() bool { return len(c.data) == 0 }
func (c *Collection[T]) Fixed() bool   { return c.fixed }

// IsFull reports whether a fixed collection has reached its capacity. A
// growable collection is never full.
func (c *Collection[T]) IsFull() bool {
	return c.fixed && len(c.data) >= c.limit
}

// Cap returns the fixed bound, or the current dense capacity of a growable
// collection.
func (c *Collection[T]) Cap() int {
	if c.fixed {
		return c.limit
	}
	return cap(c.data)
}

func (c *Collection[T]) begin() { c.iterating++ }
func (c *Collection[T]) end()   { c.iterating-- }

func (c *Collection[T]) mustNotIterate() {
	if c.iterating > 0 {
		panic(fmt.Errorf("%w: %s", ErrMutationDuringIteration, reflect.TypeFor[T]()))
	}
}

// checkInvariants verifies that the dense arrays and the sparse index agree.
func (c *Collection[T]) checkInvariants() error {
	if len(c.data) != len(c.entities) || len(c.data) != c.sparse.Len() {
		return fmt.Errorf("length mismatch: data=%d entities=%d sparse=%d",
			len(c.data), len(c.entities), c.sparse.Len())
	}

	var err error
	c.sparse.ForEach(func(e EntityId, slot int) bool {
		if slot < 0 || slot >= len(c.entities) {
			err = fmt.Errorf("entity %d maps to out of range slot %d", e, slot)
			return false
		}
		if c.entities[slot] != e {
			err = fmt.Errorf("entity %d maps to slot %d owned by %d", e, slot, c.entities[slot])
			return false
		}
		if owner := c.data[slot].Entity(); owner != e {
			err = fmt.Errorf("slot %d holds a value owned by %d, indexed as %d", slot, owner, e)
			return false
		}
		return true
	})
	return err
}
