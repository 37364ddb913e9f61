package main

import (
	"math/rand"

	"github.com/plus3/ecss/ecs"
	"go.uber.org/zap"
)

const componentCount = 5

// world drives one churn simulation. Each frame moves bodies and ages them;
// expired entities are destroyed and replacements spawned when the frame's
// commands flush.
type world struct {
	cfg       *Config
	log       *zap.Logger
	rng       *rand.Rand
	registry  *ecs.Registry
	scheduler *Scheduler

	positions  ecs.ComponentType[Position]
	velocities ecs.ComponentType[Velocity]
	lifetimes  ecs.ComponentType[Lifetime]
	masses     ecs.ComponentType[Mass]
	tags       ecs.ComponentType[Tag]

	spawned   int64
	destroyed int64
	rejected  int64
}

func newWorld(cfg *Config, log *zap.Logger) *world {
	registry := ecs.NewRegistry(
		ecs.WithLogger(log.Named("ecs")),
		ecs.WithEntityLimit(cfg.EntityLimit),
	)

	var opts []ecs.CollectionOption
	if cfg.FixedCapacity > 0 {
		opts = append(opts, ecs.WithFixedCapacity(cfg.FixedCapacity))
	} else {
		opts = append(opts, ecs.WithCapacity(cfg.Entities))
	}

	w := &world{
		cfg:        cfg,
		log:        log,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		registry:   registry,
		scheduler:  NewScheduler(registry, log),
		positions:  ecs.Register[Position](registry, opts...),
		velocities: ecs.Register[Velocity](registry, opts...),
		lifetimes:  ecs.Register[Lifetime](registry, opts...),
		masses:     ecs.Register[Mass](registry, opts...),
		tags:       ecs.Register[Tag](registry, opts...),
	}
	w.registerSystems()
	return w
}

func (w *world) populate(n int) {
	for i := 0; i < n; i++ {
		if !w.spawn() {
			w.log.Warn("entity limit reached during populate", zap.Int("spawned", i))
			return
		}
	}
}

// spawn creates an entity carrying a position, a lifetime and up to three
// random extra components. It reports false once the id space is used up.
func (w *world) spawn() bool {
	if w.cfg.EntityLimit > 0 && uint64(w.registry.EntityCount()) >= w.cfg.EntityLimit {
		return false
	}

	e := w.registry.CreateEntity()
	owner := ecs.Owner{Id: e}
	w.spawned++

	w.track(w.positions.Create(Position{Owner: owner, X: w.rng.Float32() * 100, Y: w.rng.Float32() * 100}))
	w.track(w.lifetimes.Create(Lifetime{Owner: owner, Frames: 1 + w.rng.Intn(120)}))
	if w.rng.Intn(2) == 0 {
		w.track(w.velocities.Create(Velocity{Owner: owner, DX: w.rng.Float32() - 0.5, DY: w.rng.Float32() - 0.5}))
	}
	if w.rng.Intn(3) == 0 {
		w.track(w.masses.Create(Mass{Owner: owner, Kg: 1 + w.rng.Float32()*10}))
	}
	if w.rng.Intn(4) == 0 {
		w.track(w.tags.Create(Tag{Owner: owner, Group: uint8(w.rng.Intn(8))}))
	}
	return true
}

func (w *world) track(stored bool) {
	if !stored {
		w.rejected++
	}
}

// step runs one frame through the scheduler.
func (w *world) step(dt float64) {
	w.scheduler.Once(dt)
}

func (w *world) registerSystems() {
	w.scheduler.RegisterFunc("movement", func(f *UpdateFrame) {
		dt := float32(f.DeltaTime)
		ecs.Each2(f.Registry, func(_ ecs.EntityId, p *Position, v *Velocity) {
			p.X += v.DX * dt
			p.Y += v.DY * dt
		})
	})

	w.scheduler.RegisterFunc("drag", func(f *UpdateFrame) {
		ecs.Each3(f.Registry, func(_ ecs.EntityId, _ *Position, v *Velocity, m *Mass) {
			drag := 1 - 0.01/m.Kg
			v.DX *= drag
			v.DY *= drag
		})
	})

	w.scheduler.RegisterFunc("aging", func(f *UpdateFrame) {
		for e, l := range w.lifetimes.IterWithEntitiesMut() {
			l.Frames--
			if l.Frames <= 0 {
				f.Commands.Destroy(e)
				w.destroyed++
			}
		}
	})

	// Tagged entities in group 0 lose their velocity.
	w.scheduler.RegisterFunc("anchor", func(f *UpdateFrame) {
		for _, e := range w.tags.EntitiesWhere(func(t *Tag) bool { return t.Group == 0 }) {
			ecs.QueueRemove[Velocity](f.Commands, e)
		}
	})

	// Spawns are deferred so they land after the frame's destroys free ids.
	w.scheduler.RegisterFunc("spawner", func(f *UpdateFrame) {
		f.Commands.Defer(func() {
			for i := 0; i < w.cfg.ChurnPerFrame; i++ {
				if !w.spawn() {
					return
				}
			}
		})
	})
}
