package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.NextDemo()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.rates.Visible = !g.rates.Visible
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.logPerfStats()
	}

	g.handleCameraInput()
}

// handleCameraInput orbits on left-drag and zooms on the wheel.
func (g *Game) handleCameraInput() {
	if g.camera == nil {
		return
	}

	// Drags that start on the rate panel move its sliders, not the camera.
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) && !g.pointerOverPanel() {
		d := rl.GetMouseDelta()
		g.camera.Drag(float64(d.X), float64(d.Y))
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.Zoom(float64(wheel))
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

func (g *Game) pointerOverPanel() bool {
	if !g.rates.Visible {
		return false
	}
	p := rl.GetMousePosition()
	return p.X < 440 && p.Y > 70
}
