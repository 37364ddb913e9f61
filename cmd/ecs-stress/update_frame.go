package main

import "github.com/plus3/ecss/ecs"

// UpdateFrame is passed to every system during one Scheduler pass. Mutations
// found while iterating go through Commands, which is flushed once all
// systems have run.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *ecs.Commands
	Registry  *ecs.Registry
}
