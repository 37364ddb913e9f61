package ecs_test

import (
	"testing"

	"github.com/plus3/ecss/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	registry := newTestRegistry()
	e1 := registry.CreateEntity()
	e2 := registry.CreateEntity()
	ecs.Create(registry, pos(e1, 1))
	ecs.Create(registry, pos(e2, 2))

	t.Run("create is deferred until flush", func(t *testing.T) {
		commands := ecs.NewCommands()
		ecs.QueueCreate(commands, vel(e1, 5, 10))

		assert.Equal(t, 1, commands.Len())
		assert.False(t, ecs.Exists[Velocity](registry, e1))

		commands.Flush(registry)

		v, ok := ecs.Get[Velocity](registry, e1)
		require.True(t, ok)
		assert.Equal(t, float32(5), v.DX)
		assert.Equal(t, 0, commands.Len())
	})

	t.Run("remove is deferred until flush", func(t *testing.T) {
		commands := ecs.NewCommands()
		ecs.QueueRemove[Velocity](commands, e1)

		assert.True(t, ecs.Exists[Velocity](registry, e1))
		commands.Flush(registry)
		assert.False(t, ecs.Exists[Velocity](registry, e1))
	})

	t.Run("remove all", func(t *testing.T) {
		commands := ecs.NewCommands()
		ecs.Create(registry, health(e2, 1, 1))
		commands.RemoveAll(e2)
		commands.Flush(registry)

		assert.False(t, ecs.Exists[Position](registry, e2))
		assert.False(t, ecs.Exists[Health](registry, e2))
		assert.True(t, registry.Alive(e2))
	})
}

func TestCommandsDuringIteration(t *testing.T) {
	registry := newTestRegistry()
	for i := 0; i < 10; i++ {
		e := registry.CreateEntity()
		ecs.Create(registry, health(e, i%3, 10))
	}

	commands := ecs.NewCommands()
	for e, h := range ecs.IterWithEntities[Health](registry) {
		if h.Current == 0 {
			commands.Destroy(e)
		} else {
			ecs.QueueCreate(commands, pos(e, h.Current))
		}
	}
	commands.Flush(registry)

	assert.Equal(t, 6, ecs.TypeOf[Health](registry).Len())
	assert.Equal(t, 6, ecs.TypeOf[Position](registry).Len())
	assert.Equal(t, 6, registry.EntityCount())

	for e, h := range ecs.IterWithEntities[Health](registry) {
		p, ok := ecs.Get[Position](registry, e)
		require.True(t, ok)
		assert.Equal(t, h.Current, p.Test)
	}
}

func TestCommandsSkipDestroyedEntities(t *testing.T) {
	registry := newTestRegistry()
	e := registry.CreateEntity()
	ecs.Create(registry, pos(e, 1))

	commands := ecs.NewCommands()
	ecs.QueueCreate(commands, vel(e, 1, 1))
	ecs.QueueRemove[Position](commands, e)
	commands.RemoveAll(e)
	commands.Destroy(e)
	commands.Flush(registry)

	assert.False(t, registry.Alive(e))
	assert.False(t, ecs.Exists[Velocity](registry, e))
	assert.False(t, ecs.Exists[Position](registry, e))
}

func TestCommandsOrdering(t *testing.T) {
	registry := newTestRegistry()
	e := registry.CreateEntity()
	ecs.Create(registry, pos(e, 1))

	var order []string
	commands := ecs.NewCommands()
	commands.Defer(func() {
		p, _ := ecs.Get[Position](registry, e)
		order = append(order, "defer")
		assert.Equal(t, 2, p.Test, "defer runs after remove and create")
	})
	ecs.QueueCreate(commands, pos(e, 2))
	ecs.QueueRemove[Position](commands, e)

	commands.Flush(registry)
	assert.Equal(t, []string{"defer"}, order)
}

func TestCommandsReuse(t *testing.T) {
	registry := newTestRegistry()
	commands := ecs.NewCommands()

	for round := 0; round < 3; round++ {
		e := registry.CreateEntity()
		ecs.QueueCreate(commands, pos(e, round))
		commands.Flush(registry)
		assert.Equal(t, 0, commands.Len())
		assert.True(t, ecs.Exists[Position](registry, e))
	}
	assert.Equal(t, 3, ecs.TypeOf[Position](registry).Len())
}

type unregisteredComponent struct {
	ecs.Owner
}

func TestCommandsResetAfterPanic(t *testing.T) {
	registry := newTestRegistry()
	destroyed := registry.CreateEntity()
	target := registry.CreateEntity()

	commands := ecs.NewCommands()
	commands.Destroy(destroyed)
	ecs.QueueCreate(commands, pos(target, 1))
	ecs.QueueCreate(commands, unregisteredComponent{Owner: ecs.Owner{Id: target}})

	err := recoverError(func() { commands.Flush(registry) })
	require.ErrorIs(t, err, ecs.ErrNotRegistered)
	assert.Equal(t, 0, commands.Len())
	assert.False(t, registry.Alive(destroyed))
	assert.True(t, ecs.Exists[Position](registry, target))

	// The id freed above is handed out again; a replayed destroy would kill it.
	reused := registry.CreateEntity()
	require.Equal(t, destroyed, reused)

	ran := 0
	commands.Defer(func() { ran++ })
	commands.Flush(registry)

	assert.Equal(t, 1, ran)
	assert.True(t, registry.Alive(reused))
}
