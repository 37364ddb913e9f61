package ecs

// Commands buffers registry mutations so they can be decided while iterating
// a collection and applied once iteration is over.
type Commands struct {
	destroys   []EntityId
	removes    []entityCommand
	removeAlls []EntityId
	creates    []entityCommand
	defers     []func()
}

type entityCommand struct {
	entity EntityId
	apply  func(r *Registry)
}

// NewCommands returns an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

// QueueCreate queues Create of value.
func QueueCreate[T Component](c *Commands, value T) {
	c.creates = append(c.creates, entityCommand{
		entity: value.Entity(),
		apply: func(r *Registry) {
			Create(r, value)
		},
	})
}

// QueueRemove queues Remove of the T owned by e.
func QueueRemove[T Component](c *Commands, e EntityId) {
	c.removes = append(c.removes, entityCommand{
		entity: e,
		apply: func(r *Registry) {
			Remove[T](r, e)
		},
	})
}

// RemoveAll queues removal of every component of e.
func (c *Commands) RemoveAll(e EntityId) {
	c.removeAlls = append(c.removeAlls, e)
}

// Destroy queues destruction of e.
func (c *Commands) Destroy(e EntityId) {
	c.destroys = append(c.destroys, e)
}

// Defer queues a function to run after every other command.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.destroys) + len(c.removes) + len(c.removeAlls) + len(c.creates) + len(c.defers)
}

// Flush applies all queued commands to r and resets the buffer. Destroys run
// first; removes and creates that target an entity destroyed in the same
// flush are dropped. The buffer is reset even if a command panics, so
// commands that already ran are not applied again by a later Flush.
func (c *Commands) Flush(r *Registry) {
	defer c.reset()

	destroyed := make(map[EntityId]bool, len(c.destroys))

	for _, e := range c.destroys {
		r.DestroyEntity(e)
		destroyed[e] = true
	}

	for _, cmd := range c.removes {
		if !destroyed[cmd.entity] {
			cmd.apply(r)
		}
	}

	for _, e := range c.removeAlls {
		if !destroyed[e] {
			r.RemoveAll(e)
		}
	}

	for _, cmd := range c.creates {
		if !destroyed[cmd.entity] {
			cmd.apply(r)
		}
	}

	for _, fn := range c.defers {
		fn()
	}
}

func (c *Commands) reset() {
	c.destroys = c.destroys[:0]
	c.removes = c.removes[:0]
	c.removeAlls = c.removeAlls[:0]
	c.creates = c.creates[:0]
	c.defers = c.defers[:0]
}
