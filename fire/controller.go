// Package fire schedules projectile spawns for a single weapon-holding entity.
//
// A Controller turns trigger edges into queued shot tokens and drains one
// token per multiplier delay, firing every active spread cell for that token.
// It is driven from a single goroutine, once per simulation tick.
package fire

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spreadfire/common"
	"github.com/milk9111/spreadfire/spread"
	"github.com/milk9111/spreadfire/weapon"
)

type State int

const (
	// StateIdle means no tokens are queued.
	StateIdle State = iota
	// StateArmed means tokens are queued and waiting on the multiplier delay.
	StateArmed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	default:
		return "unknown"
	}
}

// Shot is a single projectile spawn request.
type Shot struct {
	Position  mgl64.Vec3
	Direction mgl64.Vec3
	Rotation  common.Rotation
	Cell      int
	Token     Token
}

// SpawnFunc places one projectile. Its outcome is not observed.
type SpawnFunc func(Shot)

// Controller owns the fire queue and timers for one entity. The mechanic is
// shared and may be swapped at any time; changes apply on the next drain.
type Controller struct {
	mechanic *weapon.Mechanic
	spawn    SpawnFunc

	queue        queue
	sinceTrigger time.Duration
	sinceDrain   time.Duration
	triggerHeld  bool

	// primed lets the first pull after construction through regardless of
	// the fire delay.
	primed bool

	seq   uint64
	pulls uint64
}

// NewController creates a controller for m. A nil mechanic uses
// weapon.DefaultMechanic.
func NewController(m *weapon.Mechanic, spawn SpawnFunc) *Controller {
	if m == nil {
		m = weapon.DefaultMechanic()
	}
	return &Controller{
		mechanic: m,
		spawn:    spawn,
		primed:   true,
	}
}

// OnTriggerPressed queues ShotMultiplier tokens when the fire delay has
// elapsed since the last accepted pull. A pull inside the delay is dropped.
// It reports whether the pull was accepted.
func (c *Controller) OnTriggerPressed() bool {
	c.triggerHeld = true
	if !c.primed && c.sinceTrigger < c.mechanic.FireDelay() {
		return false
	}
	c.primed = false
	c.pulls++
	for range c.mechanic.ShotMultiplier() {
		c.seq++
		c.queue.push(Token{Seq: c.seq, Pull: c.pulls})
	}
	c.sinceTrigger = 0
	return true
}

// OnTriggerReleased marks the trigger as released. Queued tokens still fire.
func (c *Controller) OnTriggerReleased() {
	c.triggerHeld = false
}

// Advance steps the controller by dt using the controller's spawn callback.
// It returns the number of shots spawned.
func (c *Controller) Advance(dt time.Duration, frame common.Frame) int {
	return c.AdvanceWith(dt, frame, c.spawn)
}

// AdvanceWith is Advance with a per-call spawn callback.
//
// When the queue is empty, or no more than the multiplier delay has passed
// since the last drain, both timers accumulate dt. Otherwise every active
// cell is spawned in ascending order, exactly one token is dequeued and the
// drain timer restarts.
func (c *Controller) AdvanceWith(dt time.Duration, frame common.Frame, spawn SpawnFunc) int {
	dt = common.NonNegative(dt)

	tok, ok := c.queue.peek()
	if !ok || c.sinceDrain <= c.mechanic.MultiplierDelay() {
		c.sinceTrigger += dt
		c.sinceDrain += dt
		return 0
	}

	offsets := spread.Resolve(c.mechanic, frame)
	muzzle := frame.Muzzle()
	if spawn != nil {
		for _, o := range offsets {
			spawn(Shot{
				Position:  muzzle,
				Direction: o.Direction,
				Rotation:  o.Rotation,
				Cell:      o.Cell,
				Token:     tok,
			})
		}
	}

	c.queue.pop()
	c.sinceDrain = 0
	c.sinceTrigger += dt
	return len(offsets)
}

// Tick advances the controller and, while the trigger is held on a
// full-automatic mechanic, pulls the trigger again.
func (c *Controller) Tick(dt time.Duration, frame common.Frame) int {
	return c.TickWith(dt, frame, c.spawn)
}

// TickWith is Tick with a per-call spawn callback.
func (c *Controller) TickWith(dt time.Duration, frame common.Frame, spawn SpawnFunc) int {
	n := c.AdvanceWith(dt, frame, spawn)
	if c.triggerHeld && c.mechanic.FullAutomatic {
		c.OnTriggerPressed()
	}
	return n
}

// SetMechanic swaps the active mechanic. Queued tokens are kept.
func (c *Controller) SetMechanic(m *weapon.Mechanic) {
	if m == nil {
		return
	}
	c.mechanic = m
}

func (c *Controller) Mechanic() *weapon.Mechanic {
	return c.mechanic
}

// SetSpawn replaces the default spawn callback.
func (c *Controller) SetSpawn(spawn SpawnFunc) {
	c.spawn = spawn
}

// Queued is the number of tokens still owed.
func (c *Controller) Queued() int {
	return c.queue.len()
}

func (c *Controller) TriggerHeld() bool {
	return c.triggerHeld
}

func (c *Controller) SinceTrigger() time.Duration {
	return c.sinceTrigger
}

func (c *Controller) SinceDrain() time.Duration {
	return c.sinceDrain
}

func (c *Controller) State() State {
	if c.queue.len() == 0 {
		return StateIdle
	}
	return StateArmed
}
