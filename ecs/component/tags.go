package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]("player")

// Target is a range dummy that counts projectile hits.
type Target struct {
	Hits int
}

var TargetComponent = NewComponent[Target]("target")
