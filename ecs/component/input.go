package component

// Input stores per-tick input state for an entity. Pressed and Released are
// edges; Held is the level.
type Input struct {
	FirePressed  bool
	FireReleased bool
	FireHeld     bool

	// Degrees per second.
	YawRate   float64
	PitchRate float64

	// SelectPreset is a 1-based preset index, 0 for none.
	SelectPreset int
	SaveSlot     int
	LoadSlot     int
}

var InputComponent = NewComponent[Input]("input")
