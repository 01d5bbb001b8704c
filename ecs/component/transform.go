package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spreadfire/common"
)

// Transform is an entity's position and orientation on the range.
type Transform struct {
	Position mgl64.Vec3
	Rotation common.Rotation
}

// Frame returns the firing frame at this transform with the given muzzle
// offset.
func (t *Transform) Frame(muzzle mgl64.Vec3) common.Frame {
	return common.FrameFromRotation(t.Position, t.Rotation).WithMuzzle(muzzle)
}

var TransformComponent = NewComponent[Transform]("transform")
