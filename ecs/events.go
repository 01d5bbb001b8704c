package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spreadfire/fire"
)

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventShot   = "shot"
	EventHit    = "hit"
	EventReload = "reload"
)

// ShotEvent is emitted for every projectile a weapon spawns.
type ShotEvent struct {
	Shooter    Entity
	Projectile Entity
	Shot       fire.Shot
}

// HitEvent is emitted when a projectile touches a target.
type HitEvent struct {
	Projectile Entity
	Target     Entity
	Position   mgl64.Vec3
}

// ReloadEvent reports a mechanic swap on a weapon entity.
type ReloadEvent struct {
	Entity Entity
	Preset string
	Err    error
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
