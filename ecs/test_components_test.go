package ecs_test

import "github.com/plus3/ecss/ecs"

// Common test component types
type Position struct {
	ecs.Owner
	Test int
}

type Velocity struct {
	ecs.Owner
	DX, DY float32
}

type Health struct {
	ecs.Owner
	Current int
	Max     int
}

type Name struct {
	ecs.Owner
	Value string
}

type AttachedTo struct {
	ecs.Owner
	Target ecs.EntityId
}

// Score implements Component by hand instead of embedding ecs.Owner.
type Score struct {
	EntityId ecs.EntityId
	Points   int32
}

func (s Score) Entity() ecs.EntityId { return s.EntityId }

type Inventory struct {
	ecs.Owner
	Items []string
}

func pos(e ecs.EntityId, test int) Position {
	return Position{Owner: ecs.Owner{Id: e}, Test: test}
}

func vel(e ecs.EntityId, dx, dy float32) Velocity {
	return Velocity{Owner: ecs.Owner{Id: e}, DX: dx, DY: dy}
}

func health(e ecs.EntityId, current, maxHP int) Health {
	return Health{Owner: ecs.Owner{Id: e}, Current: current, Max: maxHP}
}

// recoverError runs fn and returns the error it panicked with, if any.
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}

func newTestRegistry() *ecs.Registry {
	registry := ecs.NewRegistry()
	ecs.Register[Position](registry)
	ecs.Register[Velocity](registry)
	ecs.Register[Health](registry)
	ecs.Register[Name](registry)
	ecs.Register[AttachedTo](registry)
	ecs.Register[Score](registry)
	ecs.Register[Inventory](registry)
	return registry
}
