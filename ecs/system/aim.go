package system

import (
	"math"

	"github.com/milk9111/spreadfire/common"
	"github.com/milk9111/spreadfire/ecs"
	"github.com/milk9111/spreadfire/ecs/component"
)

// AimSystem turns yaw and pitch rates into transform rotation.
type AimSystem struct {
	MaxPitch float64
}

func NewAimSystem() *AimSystem {
	return &AimSystem{MaxPitch: 89}
}

func (a *AimSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	secs := w.DT().Seconds()

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, t *component.Transform, input *component.Input) {
		if input.YawRate == 0 && input.PitchRate == 0 {
			return
		}
		t.Rotation.Yaw = wrapDegrees(t.Rotation.Yaw + input.YawRate*secs)
		t.Rotation.Pitch = common.Clamp(t.Rotation.Pitch+input.PitchRate*secs, -a.MaxPitch, a.MaxPitch)
	})
}

// wrapDegrees maps d into [-180, 180).
func wrapDegrees(d float64) float64 {
	d = math.Mod(d+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}
