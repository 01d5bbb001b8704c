package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/spreadfire/ecs"
	"github.com/milk9111/spreadfire/ecs/component"
)

const (
	yawSpeed   = 120.0
	pitchSpeed = 60.0
)

var presetKeys = []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9}

type InputSystem struct {
	// Poll reads the current device state. Nil reads keyboard, mouse and the
	// first gamepad through ebiten.
	Poll func() component.Input
}

func NewInputSystem() *InputSystem {
	return &InputSystem{Poll: PollDevices}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	poll := i.Poll
	if poll == nil {
		poll = PollDevices
	}
	state := poll()

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
			return
		}
		*input = state
	})
}

// PollDevices reads keyboard, mouse and the first gamepad.
func PollDevices() component.Input {
	const stickDeadzone = 0.2

	in := component.Input{
		FirePressed:  inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		FireReleased: inpututil.IsKeyJustReleased(ebiten.KeySpace) || inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		FireHeld:     ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	}

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.YawRate -= yawSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.YawRate += yawSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.PitchRate += pitchSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.PitchRate -= pitchSpeed
	}

	for idx, key := range presetKeys {
		if inpututil.IsKeyJustPressed(key) {
			in.SelectPreset = idx + 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		in.SaveSlot = 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		in.LoadSlot = 1
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		trigger := ebiten.StandardGamepadButtonFrontBottomRight
		in.FirePressed = in.FirePressed || inpututil.IsStandardGamepadButtonJustPressed(id, trigger)
		in.FireReleased = in.FireReleased || inpututil.IsStandardGamepadButtonJustReleased(id, trigger)
		in.FireHeld = in.FireHeld || ebiten.IsStandardGamepadButtonPressed(id, trigger)

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Abs(rx) > stickDeadzone {
			in.YawRate = rx * yawSpeed
		}
		if math.Abs(ry) > stickDeadzone {
			in.PitchRate = -ry * pitchSpeed
		}
	}

	return in
}
