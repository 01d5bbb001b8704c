package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spreadfire/ecs"
	"github.com/milk9111/spreadfire/ecs/component"
)

// PhysicsSystem mirrors bodies into the Chipmunk space on the XY plane, steps
// it, and resolves projectile hits on targets.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (p *PhysicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, t *component.Transform, body *component.PhysicsBody) {
		x, y := t.Position.X(), t.Position.Y()
		if body.Shape == nil {
			kind := ecs.ContactShooter
			switch {
			case ecs.Has(w, e, component.ProjectileComponent.Kind()):
				kind = ecs.ContactProjectile
			case ecs.Has(w, e, component.TargetComponent.Kind()):
				kind = ecs.ContactTarget
			}
			body.Body, body.Shape = pw.AddCircle(e, kind, x, y, body.Radius)
			return
		}
		if !body.Static {
			pw.MoveTo(e, x, y)
		}
	})

	pw.Step(w.DT().Seconds())

	for _, c := range pw.DrainContacts() {
		if !w.IsAlive(c.Projectile) || !w.IsAlive(c.Target) {
			continue
		}
		if target, ok := ecs.Get(w, c.Target, component.TargetComponent.Kind()); ok {
			target.Hits++
		}
		w.Events().Push(ecs.Event{Type: ecs.EventHit, Data: ecs.HitEvent{
			Projectile: c.Projectile,
			Target:     c.Target,
			Position:   mgl64.Vec3{c.X, c.Y, 0},
		}})
		ecs.DestroyEntity(w, c.Projectile)
	}
}
