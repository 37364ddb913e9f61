package main

import "github.com/plus3/ecss/ecs"

type Position struct {
	ecs.Owner
	X, Y float32
}

type Velocity struct {
	ecs.Owner
	DX, DY float32
}

// Lifetime counts down once per frame; the entity is destroyed at zero.
type Lifetime struct {
	ecs.Owner
	Frames int
}

type Mass struct {
	ecs.Owner
	Kg float32
}

type Tag struct {
	ecs.Owner
	Group uint8
}
