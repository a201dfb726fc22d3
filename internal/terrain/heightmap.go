package terrain

import (
	"fmt"
	"image/color"
	"math"
)

// HeightMap is a regular grid of terrain heights centered at (CenterX, CenterY) and spanning
// XSize by YSize world units. Heights is indexed x*YSamples + y, where x steps along world X.
// Colors is optional; when set it has one entry per sample.
type HeightMap struct {
	XSamples int
	YSamples int
	XSize    float64
	YSize    float64
	CenterX  float64
	CenterY  float64
	Heights  []float64
	Colors   []color.RGBA
}

// New returns a height map over the given grid. heights must hold xSamples*ySamples values;
// it is copied so the caller may keep mutating its slice (e.g. for animated terrain) and
// push changes with Update.
func New(xSamples, ySamples int, xSize, ySize, centerX, centerY float64, heights []float64) (*HeightMap, error) {
	if xSamples < 2 || ySamples < 2 {
		return nil, fmt.Errorf("terrain: need at least 2x2 samples, got %dx%d", xSamples, ySamples)
	}
	if xSize <= 0 || ySize <= 0 {
		return nil, fmt.Errorf("terrain: extent must be positive, got %vx%v", xSize, ySize)
	}
	if len(heights) != xSamples*ySamples {
		return nil, fmt.Errorf("terrain: got %d heights for a %dx%d grid", len(heights), xSamples, ySamples)
	}
	h := &HeightMap{
		XSamples: xSamples,
		YSamples: ySamples,
		XSize:    xSize,
		YSize:    ySize,
		CenterX:  centerX,
		CenterY:  centerY,
		Heights:  append([]float64(nil), heights...),
	}
	return h, nil
}

// Update replaces placement and samples in place. The sample count must not change.
func (h *HeightMap) Update(centerX, centerY, xSize, ySize float64, heights []float64) error {
	if len(heights) != h.XSamples*h.YSamples {
		return fmt.Errorf("terrain: update with %d heights, want %d", len(heights), h.XSamples*h.YSamples)
	}
	h.CenterX, h.CenterY = centerX, centerY
	h.XSize, h.YSize = xSize, ySize
	copy(h.Heights, heights)
	return nil
}

// SetColors assigns a per-sample color. len(colors) must equal the sample count.
func (h *HeightMap) SetColors(colors []color.RGBA) error {
	if len(colors) != len(h.Heights) {
		return fmt.Errorf("terrain: got %d colors for %d samples", len(colors), len(h.Heights))
	}
	h.Colors = append([]color.RGBA(nil), colors...)
	return nil
}

// Bounds returns the world-space rectangle covered by the map.
func (h *HeightMap) Bounds() (minX, minY, maxX, maxY float64) {
	return h.CenterX - h.XSize/2, h.CenterY - h.YSize/2, h.CenterX + h.XSize/2, h.CenterY + h.YSize/2
}

// Contains reports whether (x, y) lies over the map.
func (h *HeightMap) Contains(x, y float64) bool {
	minX, minY, maxX, maxY := h.Bounds()
	return x >= minX && x <= maxX && y >= minY && y <= maxY
}

// At returns the raw sample at grid index (i, j), clamped to the grid.
func (h *HeightMap) At(i, j int) float64 {
	i = clampInt(i, 0, h.XSamples-1)
	j = clampInt(j, 0, h.YSamples-1)
	return h.Heights[i*h.YSamples+j]
}

// Height returns the bilinearly interpolated height at world (x, y). Points outside the map
// take the height of the nearest border sample.
func (h *HeightMap) Height(x, y float64) float64 {
	minX, minY, _, _ := h.Bounds()
	fx := (x - minX) / h.XSize * float64(h.XSamples-1)
	fy := (y - minY) / h.YSize * float64(h.YSamples-1)
	fx = clamp(fx, 0, float64(h.XSamples-1))
	fy = clamp(fy, 0, float64(h.YSamples-1))

	i0 := int(math.Floor(fx))
	j0 := int(math.Floor(fy))
	tx := fx - float64(i0)
	ty := fy - float64(j0)

	v00 := h.At(i0, j0)
	v10 := h.At(i0+1, j0)
	v01 := h.At(i0, j0+1)
	v11 := h.At(i0+1, j0+1)
	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), ty)
}

// MinMax returns the lowest and highest sample.
func (h *HeightMap) MinMax() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range h.Heights {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
