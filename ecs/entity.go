package ecs

import "math"

// EntityId is an opaque entity identifier. It carries no generation, so an id
// recycled by DestroyEntity is indistinguishable from the entity it replaced.
type EntityId uint64

// InvalidEntity is never issued by a Registry.
const InvalidEntity EntityId = 0

// Component is implemented by every type stored in a Collection. Entity
// returns the id of the entity that owns the value.
type Component interface {
	Entity() EntityId
}

// Owner is an embeddable implementation of Component.
//
//	type Position struct {
//		ecs.Owner
//		X, Y float32
//	}
type Owner struct {
	Id EntityId
}

// Entity returns the owning entity id.
func (o Owner) Entity() EntityId {
	return o.Id
}

// entityPool issues entity ids from a monotonic counter, preferring ids that
// were handed back through release.
type entityPool struct {
	counter  EntityId
	limit    EntityId
	reusable []EntityId
}

func newEntityPool(limit uint64) entityPool {
	if limit == 0 {
		limit = math.MaxUint64
	}
	return entityPool{
		limit:    EntityId(limit),
		reusable: make([]EntityId, 0, 64),
	}
}

// next returns a fresh or recycled id. ok is false once the counter has
// reached the limit and nothing is left to reuse.
func (p *entityPool) next() (EntityId, bool) {
	if n := len(p.reusable); n > 0 {
		id := p.reusable[n-1]
		p.reusable = p.reusable[:n-1]
		return id, true
	}
	if p.counter >= p.limit {
		return InvalidEntity, false
	}
	p.counter++
	return p.counter, true
}

func (p *entityPool) release(id EntityId) {
	p.reusable = append(p.reusable, id)
}

// issued reports how many distinct ids the counter has produced.
func (p *entityPool) issued() uint64 {
	return uint64(p.counter)
}
