package ecs

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// TypeKey identifies a registered component type within one Registry. Keys
// are assigned 0, 1, 2, ... in registration order and index the registry's
// collections directly.
type TypeKey uint16

const maxTypeCount = math.MaxUint16 + 1

// Registry owns one Collection per registered component type and issues
// entity ids. It is not safe for concurrent use: mutating calls need
// exclusive access, read-only calls may only overlap with other reads.
type Registry struct {
	pool entityPool

	// keys resolves a Go type parameter to its TypeKey. Storage itself is
	// addressed by key only.
	keys        map[reflect.Type]TypeKey
	collections []iCollection
	names       []string

	// entityTypes holds the component types attached to each live entity.
	// An id is live from CreateEntity until DestroyEntity.
	entityTypes *intmap.Map[EntityId, *intmap.Set[TypeKey]]

	log *zap.Logger
}

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	log         *zap.Logger
	entityLimit uint64
}

// WithLogger sets the logger used for registration and lifecycle events.
func WithLogger(log *zap.Logger) Option {
	return func(c *registryConfig) {
		c.log = log
	}
}

// WithEntityLimit caps the entity id space: ids 1 through n can be issued.
// Zero means no cap beyond the width of EntityId.
func WithEntityLimit(n uint64) Option {
	return func(c *registryConfig) {
		c.entityLimit = n
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	var cfg registryConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}

	return &Registry{
		pool:        newEntityPool(cfg.entityLimit),
		keys:        make(map[reflect.Type]TypeKey),
		entityTypes: intmap.New[EntityId, *intmap.Set[TypeKey]](256),
		log:         cfg.log,
	}
}

// CreateEntity issues an entity id, reusing a destroyed one when available.
// It panics with ErrEntitySpaceExhausted once the id space is used up.
func (r *Registry) CreateEntity() EntityId {
	id, ok := r.pool.next()
	if !ok {
		r.log.Error("entity space exhausted", zap.Uint64("limit", uint64(r.pool.limit)))
		panic(fmt.Errorf("%w: limit %d", ErrEntitySpaceExhausted, r.pool.limit))
	}
	r.entityTypes.Put(id, intmap.NewSet[TypeKey](4))
	return id
}

// DestroyEntity removes every component of e and returns its id to the reuse
// pool. Handles still holding e will alias whichever entity receives the id
// next. Destroying an id that is not live is a no-op and returns false.
func (r *Registry) DestroyEntity(e EntityId) bool {
	if !r.entityTypes.Has(e) {
		return false
	}

	r.RemoveAll(e)
	r.entityTypes.Del(e)
	r.pool.release(e)

	r.log.Debug("entity destroyed", zap.Uint64("entity", uint64(e)))
	return true
}

// Alive reports whether e was issued by CreateEntity and not destroyed since.
func (r *Registry) Alive(e EntityId) bool {
	return r.entityTypes.Has(e)
}

// EntityCount returns the number of live entities.
func (r *Registry) EntityCount() int {
	return r.entityTypes.Len()
}

// RemoveAll removes e from every registered collection, whether or not it
// has a component there. The entity itself stays live. If any collection is
// being iterated it panics with ErrMutationDuringIteration before anything
// is removed.
func (r *Registry) RemoveAll(e EntityId) {
	for _, c := range r.collections {
		c.mustNotIterate()
	}
	for _, c := range r.collections {
		c.Remove(e)
	}
	if set, ok := r.entityTypes.Get(e); ok {
		set.Clear()
	}
}

// Components returns the keys of the component types attached to e in
// ascending order. It returns nil for an entity that is not live.
func (r *Registry) Components(e EntityId) []TypeKey {
	set, ok := r.entityTypes.Get(e)
	if !ok {
		return nil
	}
	return slices.Sorted(set.All())
}

// TypeName returns the Go type name registered under key, or "" if the key
// is unknown.
func (r *Registry) TypeName(key TypeKey) string {
	if int(key) >= len(r.names) {
		return ""
	}
	return r.names[key]
}

// TypeCount returns the number of registered component types.
func (r *Registry) TypeCount() int {
	return len(r.collections)
}

// Register allocates a collection for T and returns its ComponentType. It is
// idempotent: registering T again returns the existing ComponentType and
// ignores opts.
func Register[T Component](r *Registry, opts ...CollectionOption) ComponentType[T] {
	t := reflect.TypeFor[T]()
	if key, ok := r.keys[t]; ok {
		return componentTypeAt[T](r, key)
	}

	if len(r.collections) >= maxTypeCount {
		panic(fmt.Errorf("%w: cannot register %s", ErrTooManyTypes, t))
	}

	key := TypeKey(len(r.collections))
	coll := NewCollection[T](opts...)

	r.keys[t] = key
	r.collections = append(r.collections, coll)
	r.names = append(r.names, t.String())

	r.log.Debug("registered component type",
		zap.String("type", t.String()),
		zap.Uint16("key", uint16(key)),
		zap.Int("capacity", coll.Cap()),
		zap.Bool("fixed", coll.Fixed()),
	)

	return ComponentType[T]{key: key, name: t.String(), reg: r, coll: coll}
}

// KeyOf returns the TypeKey assigned to T, if T is registered.
func KeyOf[T Component](r *Registry) (TypeKey, bool) {
	key, ok := r.keys[reflect.TypeFor[T]()]
	return key, ok
}

// TypeOf returns the ComponentType for T. It panics with ErrNotRegistered if
// T has not been registered with r.
func TypeOf[T Component](r *Registry) ComponentType[T] {
	t := reflect.TypeFor[T]()
	key, ok := r.keys[t]
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrNotRegistered, t))
	}
	return componentTypeAt[T](r, key)
}

func componentTypeAt[T Component](r *Registry, key TypeKey) ComponentType[T] {
	coll, ok := r.collections[key].(*Collection[T])
	if !ok {
		panic(fmt.Errorf("%w: key %d holds %T, want %s",
			ErrTypeKeyMismatch, key, r.collections[key], reflect.TypeFor[T]()))
	}
	return ComponentType[T]{key: key, name: r.names[key], reg: r, coll: coll}
}
