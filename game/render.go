package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/ui"
)

// Draw renders the scene and the HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()

	g.particles.Draw(g.camera, g.scene.Registry())

	action := g.hud.Draw(ui.HUDData{
		Demo:          g.scene.Demo().Name,
		ParticleCount: g.scene.ParticleCount(),
		Drawn:         g.particles.Drawn(),
		Projectiles:   g.scene.Launcher().Active(),
		FPS:           rl.GetFPS(),
		Paused:        g.paused,
		ScreenWidth:   int32(rl.GetScreenWidth()),
		ScreenHeight:  int32(rl.GetScreenHeight()),
	})
	switch action {
	case ui.HUDNextEffect:
		g.NextDemo()
	case ui.HUDToggleRates:
		g.rates.Visible = !g.rates.Visible
	}

	g.rates.Draw(g.scene.Library(), g.poolRows())

	rl.EndDrawing()
}

func (g *Game) poolRows() []ui.PoolRow {
	effects := g.scene.Library().Effects()
	rows := make([]ui.PoolRow, len(effects))
	for i, e := range effects {
		rows[i] = ui.PoolRow{Name: e.Name, Live: e.System.LiveCount(), Capacity: e.System.Capacity()}
	}
	return rows
}
