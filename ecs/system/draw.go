package system

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/spreadfire/ecs"
	"github.com/milk9111/spreadfire/ecs/component"
	"github.com/milk9111/spreadfire/spread"
	"golang.org/x/image/colornames"
)

// DebugDrawSystem renders a top-down view of the range: +X to the right of
// the screen, +Y down, both scaled around Origin.
type DebugDrawSystem struct {
	OriginX, OriginY float64
	Scale            float64
	ShowPattern      bool

	shots int
	hits  int
}

func NewDebugDrawSystem(originX, originY float64) *DebugDrawSystem {
	return &DebugDrawSystem{OriginX: originX, OriginY: originY, Scale: 1, ShowPattern: true}
}

// Update tallies events for the HUD. It drains the queue, so it must run
// last.
func (d *DebugDrawSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, evt := range w.Events().Drain() {
		switch evt.Type {
		case ecs.EventShot:
			d.shots++
		case ecs.EventHit:
			d.hits++
		}
	}
}

func (d *DebugDrawSystem) toScreen(x, y float64) (float32, float32) {
	return float32(d.OriginX + x*d.Scale), float32(d.OriginY + y*d.Scale)
}

func (d *DebugDrawSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}

	ecs.ForEach3(w, component.TransformComponent.Kind(), component.TargetComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, t *component.Transform, target *component.Target, body *component.PhysicsBody) {
		x, y := d.toScreen(t.Position.X(), t.Position.Y())
		clr := color.Color(colornames.Orange)
		if target.Hits > 0 {
			clr = colornames.Orangered
		}
		vector.StrokeCircle(screen, x, y, float32(body.Radius*d.Scale), 2, clr, true)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", target.Hits), int(x)-4, int(y)-8)
	})

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.ProjectileComponent.Kind(), func(e ecs.Entity, t *component.Transform, p *component.Projectile) {
		x, y := d.toScreen(t.Position.X(), t.Position.Y())
		r := float32(p.Radius * d.Scale)
		if r < 1 {
			r = 1
		}
		vector.FillCircle(screen, x, y, r, colornames.Gold, true)
	})

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.WeaponComponent.Kind(), func(e ecs.Entity, t *component.Transform, wp *component.Weapon) {
		x, y := d.toScreen(t.Position.X(), t.Position.Y())
		vector.FillCircle(screen, x, y, float32(8*d.Scale), colornames.Steelblue, true)
		if wp.Controller == nil {
			return
		}

		frame := t.Frame(wp.Muzzle)
		m := wp.Controller.Mechanic()
		muzzle := frame.Muzzle()
		mx, my := d.toScreen(muzzle.X(), muzzle.Y())
		aim := muzzle.Add(frame.Forward.Mul(m.SpreadDepth()))
		ax, ay := d.toScreen(aim.X(), aim.Y())
		vector.StrokeLine(screen, mx, my, ax, ay, 1, colornames.Lightgrey, true)

		if d.ShowPattern {
			for _, o := range spread.Resolve(m, frame) {
				end := muzzle.Add(o.Direction.Mul(m.SpreadDepth()))
				ex, ey := d.toScreen(end.X(), end.Y())
				vector.StrokeLine(screen, mx, my, ex, ey, 1, colornames.Lightgreen, true)
			}
		}

		if ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
			hud := fmt.Sprintf("%s\nstate=%s queued=%d yaw=%.1f pitch=%.1f\nshots=%d hits=%d\n%s",
				m, wp.Controller.State(), wp.Controller.Queued(), t.Rotation.Yaw, t.Rotation.Pitch,
				d.shots, d.hits, spread.Grid(m))
			ebitenutil.DebugPrintAt(screen, hud, 8, 24)
		}
	})
}

// Counts returns the number of shot and hit events seen so far.
func (d *DebugDrawSystem) Counts() (shots, hits int) {
	return d.shots, d.hits
}
