package viewer

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	hudFontSize   = 20
	hudPadding    = 12
	hudLineHeight = hudFontSize + 4
	// hudInterval: the FPS and heap text is refreshed every hudInterval frames.
	hudInterval = 30
)

// hud draws the simulation status top-left and FPS/heap top-right.
type hud struct {
	frames   uint32
	fpsText  string
	memText  string
	memStats runtime.MemStats
}

func (h *hud) draw(status, focus string) {
	h.frames++
	if h.frames%hudInterval == 0 || h.fpsText == "" {
		h.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		runtime.ReadMemStats(&h.memStats)
		h.memText = fmt.Sprintf("Mem: %.2f MiB", float64(h.memStats.Alloc)/(1024*1024))
	}

	y := int32(hudPadding)
	rl.DrawText(status, hudPadding, y, hudFontSize, rl.RayWhite)
	if focus != "" {
		rl.DrawText("following "+focus, hudPadding, y+hudLineHeight, hudFontSize, rl.LightGray)
	}

	screenW := int32(rl.GetScreenWidth())
	for _, text := range []string{h.fpsText, h.memText} {
		w := rl.MeasureText(text, hudFontSize)
		rl.DrawText(text, screenW-w-hudPadding, y, hudFontSize, rl.Green)
		y += hudLineHeight
	}
}
