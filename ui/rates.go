package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// RateSource is the emitter-rate surface the panel edits.
type RateSource interface {
	Rates() (keys []string, rates []float64)
	SetRate(key string, rate float64) bool
}

// PoolRow is one particle system's fill level.
type PoolRow struct {
	Name     string
	Live     int
	Capacity int
}

// RatePanel shows a slider per emitter and a fill bar per pool.
type RatePanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	maxRate  float32
	Visible  bool
}

// NewRatePanel creates a hidden panel at (x, y). Sliders span [0, maxRate].
func NewRatePanel(x, y, width int32, maxRate float32) *RatePanel {
	return &RatePanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		maxRate:  maxRate,
	}
}

// Draw renders the panel and applies slider changes to src.
func (p *RatePanel) Draw(src RateSource, pools []PoolRow) {
	if !p.Visible {
		return
	}
	t := p.renderer.Theme
	keys, rates := src.Rates()

	height := t.Padding*2 + int32(len(keys)+len(pools)+2)*(t.LineHeight+4) + int32(len(keys))*8
	p.renderer.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + t.Padding
	y := p.renderer.DrawSectionHeader(x, p.y+t.Padding, "Emitter rates (per second)")

	sliderW := float32(p.width - t.LabelWidth - 3*t.Padding - 40)
	for i, key := range keys {
		rl.DrawText(key, x, y+4, t.FontSize, t.LabelColor)
		cur := float32(rates[i])
		next := gui.SliderBar(
			rl.Rectangle{X: float32(x + t.LabelWidth), Y: float32(y), Width: sliderW, Height: 20},
			"", fmt.Sprintf("%.0f", cur),
			cur, 0, p.maxRate,
		)
		if next != cur {
			src.SetRate(key, float64(next))
		}
		y += t.LineHeight + 12
	}

	y = p.renderer.DrawSectionHeader(x, y+4, "Pools")
	for _, row := range pools {
		y = p.renderer.DrawUtilization(x, y, row.Name, row.Live, row.Capacity, p.width-2*t.Padding)
	}
}
