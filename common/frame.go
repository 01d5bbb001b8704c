package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotation is an orientation in degrees. Axes follow an X-forward, Y-right,
// Z-up convention.
type Rotation struct {
	Pitch float64
	Yaw   float64
	Roll  float64
}

// Frame is the firing basis of an entity for a single tick.
type Frame struct {
	Position mgl64.Vec3
	Forward  mgl64.Vec3
	Up       mgl64.Vec3
	Right    mgl64.Vec3

	// MuzzleOffset is expressed in the local basis: X forward, Y right, Z up.
	MuzzleOffset mgl64.Vec3
}

// IdentityFrame returns a frame at the origin looking down +X.
func IdentityFrame() Frame {
	return Frame{
		Forward: mgl64.Vec3{1, 0, 0},
		Right:   mgl64.Vec3{0, 1, 0},
		Up:      mgl64.Vec3{0, 0, 1},
	}
}

// FrameFromRotation builds a frame whose basis matches rot.
func FrameFromRotation(pos mgl64.Vec3, rot Rotation) Frame {
	sp, cp := math.Sincos(mgl64.DegToRad(rot.Pitch))
	sy, cy := math.Sincos(mgl64.DegToRad(rot.Yaw))
	sr, cr := math.Sincos(mgl64.DegToRad(rot.Roll))

	return Frame{
		Position: pos,
		Forward:  mgl64.Vec3{cp * cy, cp * sy, sp},
		Right:    mgl64.Vec3{sr*sp*cy - cr*sy, sr*sp*sy + cr*cy, -sr * cp},
		Up:       mgl64.Vec3{-(cr*sp*cy + sr*sy), cy*sr - cr*sp*sy, cr * cp},
	}
}

// WithMuzzle returns a copy of f using offset as its muzzle offset.
func (f Frame) WithMuzzle(offset mgl64.Vec3) Frame {
	f.MuzzleOffset = offset
	return f
}

// Muzzle returns the world position projectiles leave from.
func (f Frame) Muzzle() mgl64.Vec3 {
	return f.Position.
		Add(f.Forward.Mul(f.MuzzleOffset.X())).
		Add(f.Right.Mul(f.MuzzleOffset.Y())).
		Add(f.Up.Mul(f.MuzzleOffset.Z()))
}

// Rotation returns the orientation of the frame's forward axis.
func (f Frame) Rotation() Rotation {
	return OrientationOf(f.Forward)
}

// OrientationOf converts a direction into a yaw/pitch rotation with no roll.
func OrientationOf(dir mgl64.Vec3) Rotation {
	yaw := math.Atan2(dir.Y(), dir.X())
	pitch := math.Atan2(dir.Z(), math.Hypot(dir.X(), dir.Y()))
	return Rotation{
		Pitch: mgl64.RadToDeg(pitch),
		Yaw:   mgl64.RadToDeg(yaw),
	}
}

// Direction returns the unit forward vector for r.
func (r Rotation) Direction() mgl64.Vec3 {
	return FrameFromRotation(mgl64.Vec3{}, r).Forward
}
