package terrain

import (
	"image/color"
	"math"
	"time"
)

// Wave is one term of a procedural height field: Amp * fx(x*FreqX) * fy(y*FreqY), where fx and fy
// are sin or cos as selected by CosX / CosY. x and y are grid indices, not world units.
type Wave struct {
	Amp   float64
	FreqX float64
	FreqY float64
	CosX  bool
	CosY  bool
}

func (w Wave) eval(x, y float64) float64 {
	fx := math.Sin(x * w.FreqX)
	if w.CosX {
		fx = math.Cos(x * w.FreqX)
	}
	fy := math.Sin(y * w.FreqY)
	if w.CosY {
		fy = math.Cos(y * w.FreqY)
	}
	return w.Amp * fx * fy
}

// Flat returns xSamples*ySamples heights all equal to z.
func Flat(xSamples, ySamples int, z float64) []float64 {
	out := make([]float64, xSamples*ySamples)
	if z != 0 {
		for i := range out {
			out[i] = z
		}
	}
	return out
}

// Waves sums the given terms over a xSamples by ySamples grid.
func Waves(xSamples, ySamples int, terms ...Wave) []float64 {
	out := make([]float64, xSamples*ySamples)
	for x := 0; x < xSamples; x++ {
		for y := 0; y < ySamples; y++ {
			var h float64
			for _, w := range terms {
				h += w.eval(float64(x), float64(y))
			}
			out[x*ySamples+y] = h
		}
	}
	return out
}

// FractalOptions controls fractal value-noise terrain.
// HeightScale is the maximum height in world units. Seed == 0 uses a time-based seed.
// Octaves, Frequency, Lacunarity, and Gain control the noise shape.
type FractalOptions struct {
	HeightScale float64
	Seed        int64
	Octaves     int
	Frequency   float64
	Lacunarity  float64
	Gain        float64
}

// DefaultFractalOptions returns rolling hills a few meters high.
func DefaultFractalOptions() FractalOptions {
	return FractalOptions{
		HeightScale: 3.0,
		Octaves:     4,
		Frequency:   0.08,
		Lacunarity:  2.0,
		Gain:        0.5,
	}
}

// Fractal fills a xSamples by ySamples grid with layered value noise mapped to [0, HeightScale].
// Zero or negative option fields fall back to DefaultFractalOptions.
func Fractal(xSamples, ySamples int, opts FractalOptions) []float64 {
	def := DefaultFractalOptions()
	if opts.HeightScale <= 0 {
		opts.HeightScale = def.HeightScale
	}
	if opts.Octaves <= 0 {
		opts.Octaves = def.Octaves
	}
	if opts.Frequency <= 0 {
		opts.Frequency = def.Frequency
	}
	if opts.Lacunarity <= 0 {
		opts.Lacunarity = def.Lacunarity
	}
	if opts.Gain <= 0 {
		opts.Gain = def.Gain
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	out := make([]float64, xSamples*ySamples)
	for x := 0; x < xSamples; x++ {
		for y := 0; y < ySamples; y++ {
			n := fractalValueNoise2D(float64(x)*opts.Frequency, float64(y)*opts.Frequency, seed, opts.Octaves, opts.Lacunarity, opts.Gain)
			if math.IsNaN(n) || math.IsInf(n, 0) {
				n = 0
			}
			out[x*ySamples+y] = n * opts.HeightScale
		}
	}
	return out
}

// Band assigns Color to samples whose height is below Below.
type Band struct {
	Below float64
	Color color.RGBA
}

// ColorByHeight picks, for each height, the first band whose Below exceeds it; heights above
// every band get top.
func ColorByHeight(heights []float64, bands []Band, top color.RGBA) []color.RGBA {
	out := make([]color.RGBA, len(heights))
	for i, h := range heights {
		out[i] = top
		for _, b := range bands {
			if h < b.Below {
				out[i] = b.Color
				break
			}
		}
	}
	return out
}

// fractalValueNoise2D layers octaves of value noise. Output is in [0,1].
func fractalValueNoise2D(x, y float64, seed int64, octaves int, lacunarity, gain float64) float64 {
	var sum, maxAmp float64
	amplitude := 1.0
	freq := 1.0
	for i := 0; i < octaves; i++ {
		sum += valueNoise2D(x*freq, y*freq, int32(seed)+int32(i)) * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth value noise in [0,1] over a hashed integer lattice.
func valueNoise2D(x, y float64, seed int32) float64 {
	x0 := int32(math.Floor(x))
	y0 := int32(math.Floor(y))
	sx := smoothStep(x - float64(x0))
	sy := smoothStep(y - float64(y0))

	v00 := hash2D(x0, y0, seed)
	v10 := hash2D(x0+1, y0, seed)
	v01 := hash2D(x0, y0+1, seed)
	v11 := hash2D(x0+1, y0+1, seed)
	return lerp(lerp(v00, v10, sx), lerp(v01, v11, sx), sy)
}

// hash2D maps lattice coordinates to a deterministic value in [0,1].
func hash2D(x, y, seed int32) float64 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	return float64(n&0x7fffffff) / 2147483647.0
}

// smoothStep is cubic easing: 3t^2 - 2t^3.
func smoothStep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
