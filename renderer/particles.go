// Package renderer draws particle systems with raylib.
package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/camera"
	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/systems"
)

// ParticleRenderer draws every live sprite as a camera-facing billboard,
// batched by blend mode.
type ParticleRenderer struct {
	texture     rl.Texture2D
	textureSize int
	spriteSize  float32
	background  rl.Color
	gridSlices  int32
	gridSpacing float32
	initialized bool

	drawn int
}

// NewParticleRenderer creates a renderer. Init must run after the window exists.
func NewParticleRenderer(c config.RenderConfig) *ParticleRenderer {
	return &ParticleRenderer{
		textureSize: c.TextureSize,
		spriteSize:  float32(c.SpriteSize),
		background:  rl.NewColor(c.Background[0], c.Background[1], c.Background[2], 255),
		gridSlices:  int32(c.GridSlices),
		gridSpacing: float32(c.GridSpacing),
	}
}

// Init generates the soft round particle texture.
func (r *ParticleRenderer) Init() {
	if r.initialized {
		return
	}

	// White core fading to transparent; sprites are tinted per particle.
	img := rl.GenImageGradientRadial(r.textureSize, r.textureSize, 0,
		rl.NewColor(255, 255, 255, 255), rl.NewColor(255, 255, 255, 0))
	r.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.GenTextureMipmaps(&r.texture)
	rl.SetTextureFilter(r.texture, rl.FilterBilinear)

	r.initialized = true
}

// Camera3D converts an orbit into a raylib perspective camera.
func Camera3D(o *camera.Orbit) rl.Camera3D {
	pos, target, up := o.Position(), o.Target, o.Up()
	return rl.Camera3D{
		Position:   rl.NewVector3(float32(pos.X), float32(pos.Y), float32(pos.Z)),
		Target:     rl.NewVector3(float32(target.X), float32(target.Y), float32(target.Z)),
		Up:         rl.NewVector3(float32(up.X), float32(up.Y), float32(up.Z)),
		Fovy:       float32(o.FOV),
		Projection: rl.CameraPerspective,
	}
}

// Draw clears the frame and renders the grid floor and all registered
// particle systems from the camera's point of view.
func (r *ParticleRenderer) Draw(o *camera.Orbit, reg *systems.Registry) {
	if !r.initialized {
		r.Init()
	}

	cam := Camera3D(o)
	rl.ClearBackground(r.background)
	rl.BeginMode3D(cam)
	rl.DrawGrid(r.gridSlices, r.gridSpacing)

	r.drawn = 0
	reg.EachMode(
		func(mode systems.BlendMode) { rl.BeginBlendMode(blendMode(mode)) },
		func(sys systems.ParticleSystem) { r.drawSystem(cam, sys) },
		func(systems.BlendMode) { rl.EndBlendMode() },
	)

	rl.EndMode3D()
}

// Drawn returns the number of billboards submitted in the last Draw.
func (r *ParticleRenderer) Drawn() int {
	return r.drawn
}

func (r *ParticleRenderer) drawSystem(cam rl.Camera3D, sys systems.ParticleSystem) {
	src := rl.NewRectangle(0, 0, float32(r.texture.Width), float32(r.texture.Height))
	n := sys.LiveCount()
	for i := 0; i < n; i++ {
		s := sys.Sprite(i)
		size := float32(s.Scale) * r.spriteSize
		if size <= 0 || s.Color.A == 0 {
			continue
		}
		rl.DrawBillboardPro(cam, r.texture, src,
			rl.NewVector3(float32(s.Position.X), float32(s.Position.Y), float32(s.Position.Z)),
			cam.Up,
			rl.NewVector2(size, size),
			rl.NewVector2(size/2, size/2),
			float32(s.Angle*rad2deg),
			tint(s.Color),
		)
		r.drawn++
	}
}

// Unload frees the particle texture.
func (r *ParticleRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.texture)
		r.initialized = false
	}
}

const rad2deg = 180 / math.Pi

func blendMode(m systems.BlendMode) rl.BlendMode {
	if m == systems.BlendAdditive {
		return rl.BlendAdditive
	}
	return rl.BlendAlpha
}

// tint converts a straight-alpha color to raylib's color type, which is also
// straight alpha despite the RGBA name.
func tint(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
