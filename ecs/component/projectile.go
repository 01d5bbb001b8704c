package component

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spreadfire/fire"
)

// Projectile is a spawned shot in flight. Owner is the raw id of the shooting
// entity.
type Projectile struct {
	Direction mgl64.Vec3
	Speed     float64
	Radius    float64
	Age       time.Duration
	Lifetime  time.Duration
	Cell      int
	Token     fire.Token
	Owner     uint64
}

// Expired reports whether the projectile has outlived its lifetime. A zero
// lifetime never expires.
func (p *Projectile) Expired() bool {
	return p.Lifetime > 0 && p.Age >= p.Lifetime
}

var ProjectileComponent = NewComponent[Projectile]("projectile")
