package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const panelWidth = 300

func (g *Game) drawDebugPanel() {
	x := float32(rl.GetScreenWidth()) - panelWidth - 10
	y := float32(10)

	rl.DrawRectangleRounded(rl.Rectangle{X: x - 10, Y: y - 5, Width: panelWidth + 10, Height: 390}, 0.05, 8, rl.Fade(rl.Black, 0.6))

	g.showWires = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "Collision wireframe", g.showWires)
	y += 24
	g.showCapsule = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "Player capsule", g.showCapsule)
	y += 24
	g.thirdPerson = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "Third person", g.thirdPerson)
	y += 32

	rl.DrawText("Look speed", int32(x), int32(y), 16, rl.RayWhite)
	y += 18
	look := gui.Slider(rl.Rectangle{X: x, Y: y, Width: 200, Height: 16}, "", fmt.Sprintf("%.2f", g.camera.LookSpeed), float32(g.camera.LookSpeed), 0.02, 0.5)
	g.camera.LookSpeed = float64(look)
	y += 24

	rl.DrawText("Field of view", int32(x), int32(y), 16, rl.RayWhite)
	y += 18
	fov := gui.Slider(rl.Rectangle{X: x, Y: y, Width: 200, Height: 16}, "", fmt.Sprintf("%.0f", g.camera.Fovy), float32(g.camera.Fovy), 50, 110)
	g.camera.Fovy = float64(fov)
	y += 32

	feet, vel := g.sim.Feet(), g.sim.Velocity()
	lines := []string{
		fmt.Sprintf("Feet:     (%.2f, %.2f, %.2f)", feet.X(), feet.Y(), feet.Z()),
		fmt.Sprintf("Velocity: (%.2f, %.2f, %.2f)", vel.X(), vel.Y(), vel.Z()),
		fmt.Sprintf("On floor: %v", g.lastFrame.OnFloor),
		fmt.Sprintf("Sub-steps: %d  skipped: %d", g.lastFrame.Steps, g.lastFrame.Skipped),
		fmt.Sprintf("Contact:  %v  unready: %v", g.opts.Contact, g.opts.Unready),
	}
	if idx := g.driver.Index(); idx != nil {
		lines = append(lines, fmt.Sprintf("Triangles: %d  dropped: %d  depth: %d", idx.TriangleCount(), idx.Dropped(), idx.Depth()))
	}
	lines = append(lines,
		fmt.Sprintf("Meshes:   %d  culled: %d", len(g.meshes), g.culled),
		fmt.Sprintf("Update:   %.2f ms", g.updateMs),
		fmt.Sprintf("Draw:     %.2f ms", g.drawMs),
	)
	if g.recorder != nil {
		lines = append(lines, fmt.Sprintf("Recording: %d frames", g.recorder.Len()))
	}

	for _, line := range lines {
		rl.DrawText(line, int32(x), int32(y), 16, rl.Green)
		y += 20
	}
}
