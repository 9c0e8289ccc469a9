package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"walkcore/internal/player"
)

const stickDeadzone = 0.15

// readAxes polls the keyboard and the first gamepad.
func readAxes() player.Axes {
	var axes player.Axes

	if rl.IsKeyDown(rl.KeyW) {
		axes.Forward++
	}
	if rl.IsKeyDown(rl.KeyS) {
		axes.Forward--
	}
	if rl.IsKeyDown(rl.KeyD) {
		axes.Strafe++
	}
	if rl.IsKeyDown(rl.KeyA) {
		axes.Strafe--
	}
	axes.Jump = rl.IsKeyDown(rl.KeySpace)

	if rl.IsGamepadAvailable(0) {
		x := float64(rl.GetGamepadAxisMovement(0, rl.GamepadAxisLeftX))
		y := float64(rl.GetGamepadAxisMovement(0, rl.GamepadAxisLeftY))
		if x*x+y*y > stickDeadzone*stickDeadzone {
			axes.Strafe += x
			axes.Forward -= y
		}
		if rl.IsGamepadButtonDown(0, rl.GamepadButtonRightFaceDown) {
			axes.Jump = true
		}
	}
	return axes
}

// readLook returns the look delta in mouse pixels, with the right stick
// scaled to a similar range.
func readLook() (dx, dy float64) {
	m := rl.GetMouseDelta()
	dx, dy = float64(m.X), float64(m.Y)

	if rl.IsGamepadAvailable(0) {
		rx := float64(rl.GetGamepadAxisMovement(0, rl.GamepadAxisRightX))
		ry := float64(rl.GetGamepadAxisMovement(0, rl.GamepadAxisRightY))
		if rx*rx+ry*ry > stickDeadzone*stickDeadzone {
			dx += rx * 20
			dy += ry * 20
		}
	}
	return dx, dy
}
