package component

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spreadfire/fire"
)

// ProjectileStats are applied to every projectile a weapon spawns.
type ProjectileStats struct {
	Speed    float64
	Lifetime time.Duration
	Radius   float64
}

// Weapon owns the fire controller of one entity.
type Weapon struct {
	Controller *fire.Controller
	Preset     string
	Slot       int
	Muzzle     mgl64.Vec3
	Projectile ProjectileStats
}

var WeaponComponent = NewComponent[Weapon]("weapon")
