package ecs

import (
	"iter"

	"go.uber.org/zap"
)

// ComponentType is the typed handle for a registered component type. It is
// returned by Register and TypeOf, and routes every operation straight to the
// type's collection without resolving T again. The zero value is not usable.
type ComponentType[T Component] struct {
	key  TypeKey
	name string
	reg  *Registry
	coll *Collection[T]
}

// Key returns the TypeKey assigned to T.
func (ct ComponentType[T]) Key() TypeKey { return ct.key }

// Name returns the Go type name of T.
func (ct ComponentType[T]) Name() string { return ct.name }

// Create stores value for its owning entity and records T on that entity.
// It returns false without changing anything if the entity already has a T
// or the collection is full.
func (ct ComponentType[T]) Create(value T) bool {
	e := value.Entity()
	if !ct.coll.Create(value) {
		if ct.coll.IsFull() {
			ct.reg.log.Debug("collection full, create ignored",
				zap.String("type", ct.name),
				zap.Uint64("entity", uint64(e)),
			)
		}
		return false
	}

	if set, ok := ct.reg.entityTypes.Get(e); ok {
		set.Add(ct.key)
	}
	return true
}

// Remove deletes the T owned by e. It returns false if e has none.
func (ct ComponentType[T]) Remove(e EntityId) bool {
	if !ct.coll.Remove(e) {
		return false
	}
	if set, ok := ct.reg.entityTypes.Get(e); ok {
		set.Del(ct.key)
	}
	return true
}

func (ct ComponentType[T]) Get(e EntityId) (T, bool) { return ct.coll.Get(e) }
func (ct ComponentType[T]) GetMut(e EntityId) *T     { return ct.coll.GetMut(e) }
func (ct ComponentType[T]) Exists(e EntityId) bool   { return ct.coll.Contains(e) }
func (ct ComponentType[T]) Len() int                 { return ct.coll.Len() }
func (ct ComponentType[T]) Entities() []EntityId     { return ct.coll.Entities() }

func (ct ComponentType[T]) EntitiesWhere(pred func(*T) bool) []EntityId {
	return ct.coll.EntitiesWhere(pred)
}

func (ct ComponentType[T]) Iter() iter.Seq[T]     { return ct.coll.Iter() }
func (ct ComponentType[T]) IterMut() iter.Seq[*T] { return ct.coll.IterMut() }

func (ct ComponentType[T]) IterWithEntities() iter.Seq2[EntityId, T] {
	return ct.coll.IterWithEntities()
}

func (ct ComponentType[T]) IterWithEntitiesMut() iter.Seq2[EntityId, *T] {
	return ct.coll.IterWithEntitiesMut()
}

// The functions below resolve T on every call and panic with ErrNotRegistered
// when T was never registered. Hold on to a ComponentType to skip the lookup.

// Create stores value in T's collection. See ComponentType.Create.
func Create[T Component](r *Registry, value T) bool {
	return TypeOf[T](r).Create(value)
}

// Get returns a copy of the T owned by e.
func Get[T Component](r *Registry, e EntityId) (T, bool) {
	return TypeOf[T](r).Get(e)
}

// GetMut returns a pointer to the T owned by e, or nil. The pointer is valid
// until the next Create or Remove of a T.
func GetMut[T Component](r *Registry, e EntityId) *T {
	return TypeOf[T](r).GetMut(e)
}

// Exists reports whether e has a T.
func Exists[T Component](r *Registry, e EntityId) bool {
	return TypeOf[T](r).Exists(e)
}

// Remove deletes the T owned by e.
func Remove[T Component](r *Registry, e EntityId) bool {
	return TypeOf[T](r).Remove(e)
}

// EntitiesByType returns every entity that has a T.
func EntitiesByType[T Component](r *Registry) []EntityId {
	return TypeOf[T](r).Entities()
}

// EntitiesWhere returns every entity whose T satisfies pred.
func EntitiesWhere[T Component](r *Registry, pred func(*T) bool) []EntityId {
	return TypeOf[T](r).EntitiesWhere(pred)
}

// Iter yields a copy of every T.
func Iter[T Component](r *Registry) iter.Seq[T] {
	return TypeOf[T](r).Iter()
}

// IterMut yields a pointer to every T.
func IterMut[T Component](r *Registry) iter.Seq[*T] {
	return TypeOf[T](r).IterMut()
}

// IterWithEntities yields every T with its owner.
func IterWithEntities[T Component](r *Registry) iter.Seq2[EntityId, T] {
	return TypeOf[T](r).IterWithEntities()
}

// IterWithEntitiesMut yields a pointer to every T with its owner.
func IterWithEntitiesMut[T Component](r *Registry) iter.Seq2[EntityId, *T] {
	return TypeOf[T](r).IterWithEntitiesMut()
}
