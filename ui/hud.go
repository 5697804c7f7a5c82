package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Demo          string
	ParticleCount int
	Drawn         int // billboards submitted last frame
	Projectiles   int
	FPS           int32
	Paused        bool
	ScreenWidth   int32
	ScreenHeight  int32
}

// HUDAction reports what the user asked for through the HUD this frame.
type HUDAction int

const (
	HUDNone HUDAction = iota
	HUDNextEffect
	HUDToggleRates
)

// Hint is the interaction help shown under the demo name.
const Hint = "Drag to rotate, scroll to zoom. N or the button switches effect, R shows emitter rates."

// HUD renders the heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// hudLayout is where the HUD places its widgets on a screen of a given size.
type hudLayout struct {
	nextButton  rl.Rectangle
	ratesButton rl.Rectangle
	statusY     int32
}

const hudButtonWidth, hudButtonHeight = 140, 30

// layoutHUD anchors the buttons to the top-right corner and the status line
// to the bottom edge of the current screen.
func layoutHUD(t Theme, width, height int32) hudLayout {
	bx := float32(width - hudButtonWidth - t.Padding)
	top := float32(t.Padding)
	return hudLayout{
		nextButton:  rl.Rectangle{X: bx, Y: top, Width: hudButtonWidth, Height: hudButtonHeight},
		ratesButton: rl.Rectangle{X: bx, Y: top + hudButtonHeight + 6, Width: hudButtonWidth, Height: hudButtonHeight},
		statusY:     height - t.Padding - t.FontSize,
	}
}

func statusLine(data HUDData) string {
	status := fmt.Sprintf("Particles: %d (drawn %d) | Projectiles: %d | FPS: %d",
		data.ParticleCount, data.Drawn, data.Projectiles, data.FPS)
	if data.Paused {
		status += " | PAUSED"
	}
	return status
}

// Draw renders the HUD and returns the button the user pressed, if any.
func (h *HUD) Draw(data HUDData) HUDAction {
	t := h.renderer.Theme
	layout := layoutHUD(t, data.ScreenWidth, data.ScreenHeight)

	rl.DrawText(data.Demo, t.Padding, t.Padding, t.TitleFontSize, rl.White)
	rl.DrawText(Hint, t.Padding, t.Padding+t.TitleFontSize+6, t.FontSize, t.HintColor)
	rl.DrawText(statusLine(data), t.Padding, layout.statusY, t.FontSize, t.LabelColor)

	if gui.Button(layout.nextButton, "Next effect") {
		return HUDNextEffect
	}
	if gui.Button(layout.ratesButton, "Emitter rates") {
		return HUDToggleRates
	}
	return HUDNone
}
