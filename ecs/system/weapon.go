package system

import (
	"log"

	"github.com/milk9111/spreadfire/ecs"
	"github.com/milk9111/spreadfire/ecs/component"
	"github.com/milk9111/spreadfire/fire"
	"github.com/milk9111/spreadfire/prefabs"
	"github.com/milk9111/spreadfire/replay"
)

// WeaponSystem feeds trigger edges to each weapon's controller, ticks it, and
// turns the resulting shots into projectile entities.
type WeaponSystem struct {
	// Recorder, when set, captures the player's edges and tick lengths.
	Recorder *replay.Recorder
}

type pendingShot struct {
	shooter ecs.Entity
	shot    fire.Shot
	stats   component.ProjectileStats
}

func NewWeaponSystem() *WeaponSystem {
	return &WeaponSystem{}
}

func (s *WeaponSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DT()

	var pending []pendingShot
	ecs.ForEach3(w, component.TransformComponent.Kind(), component.WeaponComponent.Kind(), component.InputComponent.Kind(),
		func(e ecs.Entity, t *component.Transform, wp *component.Weapon, input *component.Input) {
			if wp.Controller == nil {
				wp.Controller = fire.NewController(nil, nil)
			}
			c := wp.Controller

			if input.FirePressed {
				c.OnTriggerPressed()
			}
			if input.FireReleased {
				c.OnTriggerReleased()
			}
			if s.Recorder != nil && ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
				s.Recorder.Record(dt, input.FirePressed, input.FireReleased, c.Mechanic())
			}

			stats := wp.Projectile
			c.TickWith(dt, t.Frame(wp.Muzzle), func(shot fire.Shot) {
				pending = append(pending, pendingShot{shooter: e, shot: shot, stats: stats})
			})
		})

	for _, p := range pending {
		proj := SpawnProjectile(w, p.shooter, p.shot, p.stats)
		w.Events().Push(ecs.Event{Type: ecs.EventShot, Data: ecs.ShotEvent{Shooter: p.shooter, Projectile: proj, Shot: p.shot}})
	}
}

// SpawnProjectile creates a projectile entity for shot.
func SpawnProjectile(w *ecs.World, shooter ecs.Entity, shot fire.Shot, stats component.ProjectileStats) ecs.Entity {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: shot.Position,
		Rotation: shot.Rotation,
	}); err != nil {
		panic("weapon system: add transform: " + err.Error())
	}
	if err := ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{
		Direction: shot.Direction,
		Speed:     stats.Speed,
		Radius:    stats.Radius,
		Lifetime:  stats.Lifetime,
		Cell:      shot.Cell,
		Token:     shot.Token,
		Owner:     uint64(shooter),
	}); err != nil {
		panic("weapon system: add projectile: " + err.Error())
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: stats.Radius}); err != nil {
		panic("weapon system: add physics body: " + err.Error())
	}
	return e
}

// ApplyWeaponSpec builds spec into a fresh mechanic and installs it on wp.
// Queued tokens on the controller survive the swap.
func ApplyWeaponSpec(wp *component.Weapon, spec *prefabs.WeaponSpec) error {
	m, err := spec.Build()
	if err != nil {
		return err
	}
	if wp.Controller == nil {
		wp.Controller = fire.NewController(m, nil)
	} else {
		wp.Controller.SetMechanic(m)
	}
	wp.Preset = m.Name
	wp.Muzzle = spec.Muzzle.Vec3()
	wp.Projectile = ProjectileStatsFromSpec(spec.Projectile)
	log.Printf("weapon: installed %s", m)
	return nil
}

func ProjectileStatsFromSpec(p prefabs.ProjectileSpec) component.ProjectileStats {
	stats := component.ProjectileStats{
		Speed:    p.Speed,
		Lifetime: prefabs.Seconds(p.Lifetime),
		Radius:   p.Radius,
	}
	if stats.Speed <= 0 {
		stats.Speed = 400
	}
	if stats.Lifetime <= 0 {
		stats.Lifetime = prefabs.Seconds(1)
	}
	if stats.Radius <= 0 {
		stats.Radius = 2
	}
	return stats
}
