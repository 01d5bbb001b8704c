package ecs

import "time"

// Scheduler runs systems in registration order, once per simulation tick.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Step runs every system with dt as the world's tick length.
func (s *Scheduler) Step(w *World, dt time.Duration) {
	if s == nil || w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.dt = dt
	for _, system := range s.systems {
		system.Update(w)
	}
	w.tick++
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
