package system

import (
	"github.com/milk9111/spreadfire/ecs"
	"github.com/milk9111/spreadfire/ecs/component"
)

// ProjectileSystem moves projectiles along their direction and destroys them
// once their lifetime has elapsed.
type ProjectileSystem struct{}

func NewProjectileSystem() *ProjectileSystem {
	return &ProjectileSystem{}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DT()
	secs := dt.Seconds()

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.ProjectileComponent.Kind(), func(e ecs.Entity, t *component.Transform, p *component.Projectile) {
		p.Age += dt
		if p.Expired() {
			ecs.DestroyEntity(w, e)
			return
		}
		t.Position = t.Position.Add(p.Direction.Mul(p.Speed * secs))
	})
}
